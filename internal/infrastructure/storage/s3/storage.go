// Package s3 implements durable photo storage on S3-compatible object
// storage. Uploaded photos get a long-lived public URL, distinct from the
// transient data URI used during upload.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/photodish/v1/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StorageService implements outbound.StorageService on S3.
type StorageService struct {
	client        *awss3.S3
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewStorageService creates an S3 storage service. A custom endpoint
// supports S3-compatible stores (MinIO, R2) in development.
func NewStorageService(cfg config.StorageConfig, logger *zap.Logger) (*StorageService, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.AccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(
			credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		client:        awss3.New(sess),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload writes photo bytes under the given key and returns the durable
// retrieval URL.
func (s *StorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	url := s.objectURL(key)
	s.logger.Info("photo uploaded",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
		zap.String("url", url),
	)
	return url, nil
}

func (s *StorageService) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
