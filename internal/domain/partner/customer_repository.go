package partner

import (
	"context"

	"github.com/retaildash/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Create inserts a customer and fills in the store-assigned ID
	Create(ctx context.Context, customer *Customer) error

	// Update persists the customer's contact fields
	Update(ctx context.Context, customer *Customer) error

	// Delete deletes a customer
	Delete(ctx context.Context, id int64) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
