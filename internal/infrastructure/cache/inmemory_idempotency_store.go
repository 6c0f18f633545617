package cache

import (
	"context"
	"time"

	"github.com/retaildash/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements IdempotencyStore using an in-memory map.
// It only protects a single process; use the Redis store when running several instances.
type InMemoryIdempotencyStore struct {
	keys *ttlMap[struct{}]
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store.
// Expired keys are swept every five minutes.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{keys: newTTLMap[struct{}](5 * time.Minute)}
}

// MarkProcessed records the key; it returns false when the key is already live
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return s.keys.setIfAbsent(key, struct{}{}, ttl), nil
}

// IsProcessed checks if a key is recorded and not expired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	_, ok := s.keys.get(key)
	return ok, nil
}

// Release forgets the key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.keys.delete(key)
	return nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.keys.close()
	return nil
}

// Size returns the number of stored keys, expired ones included until the next sweep
func (s *InMemoryIdempotencyStore) Size() int {
	return s.keys.size()
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
