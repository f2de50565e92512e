// Package storage holds the degraded-mode object storage used when no
// bucket is configured. The real implementation lives in the s3
// subpackage.
package storage

import (
	"context"

	apperrors "github.com/photodish/v1/pkg/errors"
)

// Unconfigured reports photo storage as unavailable instead of crashing
// the app when credentials are missing.
type Unconfigured struct{}

// NewUnconfigured creates the degraded-mode storage service.
func NewUnconfigured() *Unconfigured {
	return &Unconfigured{}
}

// Upload always fails with a configuration-required error.
func (u *Unconfigured) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", apperrors.NewServiceUnavailableError("photo storage")
}
