package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Saga outcomes
const (
	OutcomeCommitted   = "committed"
	OutcomeRolledBack  = "rolled_back"
	OutcomeCompensated = "compensated"
	OutcomeFailed      = "failed"
)

// OrderMetrics records order lifecycle and saga activity
type OrderMetrics struct {
	ordersCreated      *Counter
	revenueCents       *Counter
	stockRejections    *Counter
	sagaRuns           *Counter
	compensationErrors *Counter
	sagaDuration       *Histogram
}

// NewOrderMetrics creates the order instruments on meter
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		m   OrderMetrics
		err error
	)
	if m.ordersCreated, err = NewCounter(meter, "retail_orders_created_total", "Orders created", "{orders}"); err != nil {
		return nil, err
	}
	if m.revenueCents, err = NewCounter(meter, "retail_order_revenue_cents_total", "Total of created orders in cents", "{cents}"); err != nil {
		return nil, err
	}
	if m.stockRejections, err = NewCounter(meter, "retail_order_stock_rejections_total", "Orders refused by the stock pre-check", "{orders}"); err != nil {
		return nil, err
	}
	if m.sagaRuns, err = NewCounter(meter, "retail_saga_runs_total", "Saga executions by outcome", "{runs}"); err != nil {
		return nil, err
	}
	if m.compensationErrors, err = NewCounter(meter, "retail_saga_compensation_errors_total", "Compensation steps that failed", "{steps}"); err != nil {
		return nil, err
	}
	if m.sagaDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "retail_saga_duration_seconds",
		Description: "Saga execution time",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordOrderCreated counts a created order and its total
func (m *OrderMetrics) RecordOrderCreated(ctx context.Context, total decimal.Decimal) {
	m.ordersCreated.Inc(ctx)
	m.revenueCents.Add(ctx, total.Shift(2).IntPart())
}

// RecordStockRejection counts an order refused for lack of stock
func (m *OrderMetrics) RecordStockRejection(ctx context.Context) {
	m.stockRejections.Inc(ctx)
}

// RecordSaga records one saga execution
func (m *OrderMetrics) RecordSaga(ctx context.Context, saga, outcome string, elapsed time.Duration) {
	m.sagaRuns.Inc(ctx, AttrSagaName.String(saga), AttrOutcome.String(outcome))
	m.sagaDuration.RecordDuration(ctx, elapsed, AttrSagaName.String(saga))
}

// RecordCompensationError counts a compensation step that failed
func (m *OrderMetrics) RecordCompensationError(ctx context.Context, saga, step string) {
	m.compensationErrors.Inc(ctx, AttrSagaName.String(saga), AttrSagaStep.String(step))
}
