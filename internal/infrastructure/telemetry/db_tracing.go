package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans, development only
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus a callback that flags
// slow statements on their span
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("slow_query:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("slow_query:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("slow_query:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("slow_query:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("slow_query:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("slow_query:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("slow_query:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("slow_query:after_delete", after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("slow_query:before_row", before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("slow_query:after_row", after); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
