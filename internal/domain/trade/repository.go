package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order persistence.
// Header and item rows are written by separate calls; none of them
// touches product stock.
type OrderRepository interface {
	// FindByID finds an order by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter, without items.
	// Supported filter keys: "status", "customer_id", "employee_id".
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumTotals returns the sum of order totals, excluding cancelled orders
	SumTotals(ctx context.Context) (decimal.Decimal, error)

	// Create inserts the order header
	Create(ctx context.Context, order *Order) error

	// Update persists the order header
	Update(ctx context.Context, order *Order) error

	// Delete deletes the order header; the store cascades to item rows
	Delete(ctx context.Context, id uuid.UUID) error

	// FindItems returns the items of an order in insertion order
	FindItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	// CreateItem inserts one item row
	CreateItem(ctx context.Context, item *OrderItem) error

	// DeleteItem deletes one item row
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
