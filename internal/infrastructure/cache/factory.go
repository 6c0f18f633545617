package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/retaildash/backend/internal/domain/session"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backends groups the key-value stores the service needs. They are backed
// by Redis when it is enabled and reachable, and by process memory otherwise.
type Backends struct {
	Redis       *redis.Client // nil when running on memory
	Sessions    session.Store
	Idempotency shared.IdempotencyStore

	closers []io.Closer
}

// BackendsOption is a functional option for NewBackends
type BackendsOption func(*backendsOptions)

type backendsOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) BackendsOption {
	return func(o *backendsOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) BackendsOption {
	return func(o *backendsOptions) {
		o.allowInMemoryFallback = allow
	}
}

// NewBackends builds the session and idempotency stores from configuration
func NewBackends(ctx context.Context, redisCfg config.RedisConfig, sessionCfg config.SessionConfig, opts ...BackendsOption) (*Backends, error) {
	o := &backendsOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(o)
	}

	// The guard decides expiry from the record timestamp; the key TTL only
	// garbage-collects abandoned clients.
	ttls := SessionTTLs{
		Session: sessionCfg.IdleTimeout * 2,
		Block:   sessionCfg.RecordTTL,
	}

	if redisCfg.Enabled {
		client, err := NewRedisClient(ctx, redisCfg)
		if err == nil {
			o.logger.Info("Using Redis for sessions and idempotency keys", zap.String("addr", redisCfg.Addr()))
			return &Backends{
				Redis:       client,
				Sessions:    NewRedisSessionStore(client, redisCfg.Prefix, ttls),
				Idempotency: NewRedisIdempotencyStore(client, redisCfg.Prefix),
				closers:     []io.Closer{client},
			}, nil
		}
		if !o.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		o.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Sessions and idempotency keys will not be shared between instances.",
			zap.Error(err),
		)
	}

	sessions := NewInMemorySessionStore(ttls)
	idempotency := NewInMemoryIdempotencyStore()
	return &Backends{
		Sessions:    sessions,
		Idempotency: idempotency,
		closers:     []io.Closer{sessions, idempotency},
	}, nil
}

// Close releases every backend
func (b *Backends) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
