package persistence

import (
	"context"

	"github.com/retaildash/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor runs functions inside a database transaction carried in the context.
// Repositories pick the transaction up through conn, so every write made
// inside fn commits or rolls back together.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn in a transaction. A call made while a transaction
// is already active joins it instead of opening a new one.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// WithinSavepoint runs fn in a savepoint of the transaction in ctx. GORM
// rolls back to the savepoint when fn fails, which also clears a PostgreSQL
// transaction that a failed statement left aborted.
func (t *GormTransactor) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return t.WithinTransaction(ctx, fn)
	}
	return tx.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, sp))
	})
}

// conn returns the transaction stored in ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// inTransaction runs fn in the transaction from ctx, or opens one of its own
func inTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(tx.WithContext(ctx))
	}
	return db.WithContext(ctx).Transaction(fn)
}

var _ shared.Transactor = (*GormTransactor)(nil)
