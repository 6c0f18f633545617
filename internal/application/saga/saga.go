// Package saga runs multi-step writes as a sequence of named steps, each
// paired with a compensation that undoes it. When a step fails, the steps
// that already completed are compensated in reverse order, or rolled back
// with the transaction when the runner has a transactor.
package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Action is the forward work or the compensation of a step
type Action func(ctx context.Context) error

// Step is one unit of work of a saga
type Step struct {
	Name       string
	Action     Action
	Compensate Action // nil when the step has nothing to undo
}

// Saga is an ordered list of steps
type Saga struct {
	name  string
	steps []Step
}

// New creates an empty saga
func New(name string) *Saga {
	return &Saga{name: name}
}

// Name returns the saga name
func (s *Saga) Name() string {
	return s.name
}

// Step appends a step and returns the saga for chaining
func (s *Saga) Step(name string, action, compensate Action) *Saga {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
	return s
}

// Len returns the number of steps
func (s *Saga) Len() int {
	return len(s.steps)
}

// CompensationError is a compensation that failed
type CompensationError struct {
	Step string
	Err  error
}

// Error is returned when a saga step fails. It unwraps to the step's error,
// so callers can still match domain errors such as ErrInsufficientStock.
type Error struct {
	Saga               string
	Step               string
	Err                error
	CompensationErrors []CompensationError
	// RolledBack is set when the saga ran in a transaction; the rollback
	// undid the completed steps and no compensation ran.
	RolledBack bool
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: step %s failed: %v", e.Saga, e.Step, e.Err)
	if len(e.CompensationErrors) == 0 {
		return msg
	}
	failed := make([]string, len(e.CompensationErrors))
	for i, ce := range e.CompensationErrors {
		failed[i] = fmt.Sprintf("%s (%v)", ce.Step, ce.Err)
	}
	return msg + "; compensation failed for " + strings.Join(failed, ", ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Compensated reports whether every completed step was undone
func (e *Error) Compensated() bool {
	return len(e.CompensationErrors) == 0
}

// MetricsRecorder receives saga outcomes
type MetricsRecorder interface {
	RecordSaga(ctx context.Context, saga, outcome string, elapsed time.Duration)
	RecordCompensationError(ctx context.Context, saga, step string)
}

// Runner executes sagas, inside a transaction when a Transactor is set
type Runner struct {
	transactor shared.Transactor
	logger     *zap.Logger
	metrics    MetricsRecorder
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithTransactor runs every saga inside one storage transaction
func WithTransactor(t shared.Transactor) RunnerOption {
	return func(r *Runner) {
		r.transactor = t
	}
}

// WithMetrics records saga outcomes
func WithMetrics(m MetricsRecorder) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a saga runner
func NewRunner(logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the saga. With a transactor, the saga's writes commit or roll
// back together and a failed step is undone by the rollback; compensations
// only run without a transactor.
func (r *Runner) Run(ctx context.Context, s *Saga) error {
	start := time.Now()
	var err error
	if r.transactor != nil {
		err = r.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			return r.execute(txCtx, s, true)
		})
	} else {
		err = r.execute(ctx, s, false)
	}
	r.record(ctx, s, err, time.Since(start))
	return err
}

// Savepoint runs fn so that a failure undoes fn alone and leaves the saga's
// transaction usable. Steps use it for work whose failure they tolerate.
func (r *Runner) Savepoint(ctx context.Context, fn Action) error {
	if r.transactor == nil {
		return fn(ctx)
	}
	return r.transactor.WithinSavepoint(ctx, fn)
}

func (r *Runner) execute(ctx context.Context, s *Saga, transactional bool) error {
	completed := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if err := step.Action(ctx); err != nil {
			r.logger.Warn("saga step failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Int("completed_steps", len(completed)),
				zap.Error(err),
			)
			sagaErr := &Error{Saga: s.name, Step: step.Name, Err: err}
			if transactional {
				// the caller's rollback undoes completed steps, and the
				// transaction may already be unusable for compensations
				sagaErr.RolledBack = true
				r.logger.Info("saga rolled back",
					zap.String("saga", s.name),
					zap.Int("completed_steps", len(completed)),
				)
				return sagaErr
			}
			sagaErr.CompensationErrors = r.compensate(ctx, s.name, completed)
			return sagaErr
		}
		completed = append(completed, step)
		r.logger.Debug("saga step completed",
			zap.String("saga", s.name),
			zap.String("step", step.Name),
		)
	}
	return nil
}

// compensate undoes completed steps in reverse order. It keeps going after a
// failed compensation and returns every failure.
func (r *Runner) compensate(ctx context.Context, name string, completed []Step) []CompensationError {
	if len(completed) == 0 {
		return nil
	}
	// the request may already be cancelled; undo work regardless
	ctx = context.WithoutCancel(ctx)

	var failures []CompensationError
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			r.logger.Error("saga compensation failed",
				zap.String("saga", name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			if r.metrics != nil {
				r.metrics.RecordCompensationError(ctx, name, step.Name)
			}
			failures = append(failures, CompensationError{Step: step.Name, Err: err})
			continue
		}
		r.logger.Debug("saga step compensated",
			zap.String("saga", name),
			zap.String("step", step.Name),
		)
	}

	r.logger.Info("saga compensation completed",
		zap.String("saga", name),
		zap.Int("completed_steps", len(completed)),
		zap.Int("failed_compensations", len(failures)),
	)
	return failures
}

func (r *Runner) record(ctx context.Context, s *Saga, err error, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	outcome := telemetry.OutcomeCommitted
	if err != nil {
		outcome = telemetry.OutcomeCompensated
		var sagaErr *Error
		switch {
		case !errors.As(err, &sagaErr) || !sagaErr.Compensated():
			outcome = telemetry.OutcomeFailed
		case sagaErr.RolledBack:
			outcome = telemetry.OutcomeRolledBack
		}
	}
	r.metrics.RecordSaga(ctx, s.name, outcome, elapsed)
}
