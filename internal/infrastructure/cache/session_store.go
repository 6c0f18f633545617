package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retaildash/backend/internal/domain/session"
)

// SessionTTLs bounds how long each persisted record outlives its last write
type SessionTTLs struct {
	Session time.Duration // idle timeout of a logged-in client
	Block   time.Duration // how long lockout history is remembered
}

// RedisSessionStore persists the gate state of each client as two JSON
// values, one per record key
type RedisSessionStore struct {
	client    redis.Cmdable
	keyPrefix string
	ttls      SessionTTLs
}

// NewRedisSessionStore creates a session store on a shared client
func NewRedisSessionStore(client redis.Cmdable, prefix string, ttls SessionTTLs) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		keyPrefix: prefix + ":gate:",
		ttls:      ttls,
	}
}

func (s *RedisSessionStore) key(clientID, record string) string {
	return s.keyPrefix + clientID + ":" + record
}

// Load reads both records; missing keys leave the matching field nil
func (s *RedisSessionStore) Load(ctx context.Context, clientID string) (session.SessionState, error) {
	values, err := s.client.MGet(ctx,
		s.key(clientID, session.SessionKey),
		s.key(clientID, session.BlockDataKey),
	).Result()
	if err != nil {
		return session.SessionState{}, fmt.Errorf("failed to load session state: %w", err)
	}

	var state session.SessionState
	if raw, ok := values[0].(string); ok {
		var rec session.SessionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return session.SessionState{}, fmt.Errorf("failed to decode %s record: %w", session.SessionKey, err)
		}
		state.Session = &rec
	}
	if raw, ok := values[1].(string); ok {
		var rec session.BlockRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return session.SessionState{}, fmt.Errorf("failed to decode %s record: %w", session.BlockDataKey, err)
		}
		state.Block = &rec
	}
	return state, nil
}

// Save writes both records in one transaction, deleting the nil ones
func (s *RedisSessionStore) Save(ctx context.Context, clientID string, state session.SessionState) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := writeRecord(ctx, pipe, s.key(clientID, session.SessionKey), state.Session, s.ttls.Session); err != nil {
			return err
		}
		return writeRecord(ctx, pipe, s.key(clientID, session.BlockDataKey), state.Block, s.ttls.Block)
	})
	if err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// Clear removes every record of the client
func (s *RedisSessionStore) Clear(ctx context.Context, clientID string) error {
	err := s.client.Del(ctx,
		s.key(clientID, session.SessionKey),
		s.key(clientID, session.BlockDataKey),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}

func writeRecord[T any](ctx context.Context, pipe redis.Pipeliner, key string, rec *T, ttl time.Duration) error {
	if rec == nil {
		pipe.Del(ctx, key)
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe.Set(ctx, key, data, ttl)
	return nil
}

// InMemorySessionStore keeps gate state in process memory
type InMemorySessionStore struct {
	sessions *ttlMap[session.SessionRecord]
	blocks   *ttlMap[session.BlockRecord]
	ttls     SessionTTLs
}

// NewInMemorySessionStore creates an in-memory session store
func NewInMemorySessionStore(ttls SessionTTLs) *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: newTTLMap[session.SessionRecord](time.Minute),
		blocks:   newTTLMap[session.BlockRecord](time.Minute),
		ttls:     ttls,
	}
}

// Load returns copies of the stored records
func (s *InMemorySessionStore) Load(_ context.Context, clientID string) (session.SessionState, error) {
	var state session.SessionState
	if rec, ok := s.sessions.get(clientID); ok {
		state.Session = &rec
	}
	if rec, ok := s.blocks.get(clientID); ok {
		state.Block = &rec
	}
	return state, nil
}

// Save stores copies of the records, deleting the nil ones
func (s *InMemorySessionStore) Save(_ context.Context, clientID string, state session.SessionState) error {
	if state.Session == nil {
		s.sessions.delete(clientID)
	} else {
		s.sessions.set(clientID, *state.Session, s.ttls.Session)
	}
	if state.Block == nil {
		s.blocks.delete(clientID)
	} else {
		s.blocks.set(clientID, *state.Block, s.ttls.Block)
	}
	return nil
}

// Clear removes every record of the client
func (s *InMemorySessionStore) Clear(_ context.Context, clientID string) error {
	s.sessions.delete(clientID)
	s.blocks.delete(clientID)
	return nil
}

// Close stops the sweep goroutines
func (s *InMemorySessionStore) Close() error {
	s.sessions.close()
	s.blocks.close()
	return nil
}

var (
	_ session.Store = (*RedisSessionStore)(nil)
	_ session.Store = (*InMemorySessionStore)(nil)
)
