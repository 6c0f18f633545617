package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Employee, error) {
	var model models.EmployeeModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.EmployeeModel{}), filter)
	query = paginate(query, filter, EmployeeSortFields)

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	return toEmployees(employeeModels), nil
}

// FindOrderProcessors returns active employees of the Sales department, by name
func (r *GormEmployeeRepository) FindOrderProcessors(ctx context.Context) ([]partner.Employee, error) {
	var employeeModels []models.EmployeeModel
	if err := conn(ctx, r.db).
		Where("department = ? AND status = ?", partner.DepartmentSales, partner.EmployeeStatusActive).
		Order("name ASC").
		Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	return toEmployees(employeeModels), nil
}

// Create inserts a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *partner.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err, "employee")
	}
	return nil
}

// Update persists every mutable field of the employee
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *partner.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	result := conn(ctx, r.db).
		Model(&models.EmployeeModel{}).
		Where("id = ?", employee.ID).
		Select("name", "email", "phone", "address", "position", "department",
			"salary", "hire_date", "status", "profile_image_url", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateStatus persists only the employee's status
func (r *GormEmployeeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status partner.EmployeeStatus) error {
	result := conn(ctx, r.db).
		Model(&models.EmployeeModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an employee. The store refuses the delete while orders
// still reference the employee.
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.EmployeeModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "employee")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts employees matching the filter
func (r *GormEmployeeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.EmployeeModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "email", "position")
	for key, value := range filter.Filters {
		switch key {
		case "department":
			query = query.Where("department = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

func toEmployees(employeeModels []models.EmployeeModel) []partner.Employee {
	employees := make([]partner.Employee, len(employeeModels))
	for i, model := range employeeModels {
		employees[i] = *model.ToDomain()
	}
	return employees
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ partner.EmployeeRepository = (*GormEmployeeRepository)(nil)
