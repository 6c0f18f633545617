package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/shared"
)

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	// FindByID finds an employee by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)

	// FindAll finds all employees matching the filter.
	// Supported filter keys: "department", "status".
	FindAll(ctx context.Context, filter shared.Filter) ([]Employee, error)

	// FindOrderProcessors returns active employees of the Sales department
	FindOrderProcessors(ctx context.Context) ([]Employee, error)

	// Create inserts a new employee
	Create(ctx context.Context, employee *Employee) error

	// Update persists every mutable field of the employee
	Update(ctx context.Context, employee *Employee) error

	// UpdateStatus persists only the employee's status
	UpdateStatus(ctx context.Context, id uuid.UUID, status EmployeeStatus) error

	// Delete deletes an employee
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts employees matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
