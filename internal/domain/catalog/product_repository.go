package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// A product is stored as a base row plus one detail row in the table of its
// category; the two are written by separate calls.
type ProductRepository interface {
	// FindByID finds a product by ID, joined with its detail row
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds all products matching the filter, joined with their detail rows.
	// Supported filter keys: "category", "status".
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts the base row only
	Create(ctx context.Context, product *Product) error

	// Update persists the base row only
	Update(ctx context.Context, product *Product) error

	// Delete deletes the base row; the store cascades to the detail row
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveDetails inserts or replaces the detail row of the product's category
	SaveDetails(ctx context.Context, productID uuid.UUID, details Details) error
}

// StockGateway adjusts stock with single atomic statements
type StockGateway interface {
	// DecreaseStock removes qty units. It fails with ErrInsufficientStock,
	// leaving stock untouched, when fewer than qty units are available.
	DecreaseStock(ctx context.Context, productID uuid.UUID, qty int) error

	// IncreaseStock adds qty units back
	IncreaseStock(ctx context.Context, productID uuid.UUID, qty int) error
}
