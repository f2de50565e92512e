// Package memory provides an in-memory session store for development and
// tests. State expires lazily on read.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/photodish/v1/internal/ports/outbound"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// SessionStore implements outbound.SessionStore in process memory.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]entry)}
}

// Get retrieves session state by ID.
func (s *SessionStore) Get(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, outbound.ErrSessionNotFound
	}
	return e.data, nil
}

// Set stores session state with a TTL. A zero TTL means no expiry.
func (s *SessionStore) Set(ctx context.Context, id string, state []byte, ttl time.Duration) error {
	e := entry{data: state}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return nil
}

// Delete removes session state.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
