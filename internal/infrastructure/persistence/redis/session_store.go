// Package redis provides a Redis-backed session store so upload sessions
// survive process restarts and can be shared across instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "photodish:session:"

// SessionStore implements outbound.SessionStore on Redis.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore connects to Redis and verifies the connection.
func NewSessionStore(ctx context.Context, cfg config.RedisConfig) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SessionStore{client: client}, nil
}

// Get retrieves session state by ID.
func (s *SessionStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrSessionNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set stores session state with a TTL.
func (s *SessionStore) Set(ctx context.Context, id string, state []byte, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+id, state, ttl).Err()
}

// Delete removes session state.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

// Close closes the underlying client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
