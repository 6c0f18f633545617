package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/domain/trade"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter, without items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.OrderModel{}), filter)
	query = paginate(query, filter, OrderSortFields)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotals returns the sum of order totals, excluding cancelled orders
func (r *GormOrderRepository) SumTotals(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := conn(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("status <> ?", trade.OrderStatusCancelled).
		Select("SUM(total)").
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Create inserts the order header
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := conn(ctx, r.db).Omit("Items").Create(model).Error; err != nil {
		return translateError(err, "order")
	}
	return nil
}

// Update persists the order header
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	result := conn(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Select("customer_id", "employee_id", "total", "status", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, "order")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes the order header and its item rows
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindItems returns the items of an order in insertion order
func (r *GormOrderRepository) FindItems(ctx context.Context, orderID uuid.UUID) ([]trade.OrderItem, error) {
	var itemModels []models.OrderItemModel
	if err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]trade.OrderItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// CreateItem inserts one item row
func (r *GormOrderRepository) CreateItem(ctx context.Context, item *trade.OrderItem) error {
	if err := conn(ctx, r.db).Create(models.OrderItemModelFromDomain(item)).Error; err != nil {
		return translateError(err, "order item")
	}
	return nil
}

// DeleteItem deletes one item row
func (r *GormOrderRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.OrderItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "employee_id":
			query = query.Where("employee_id = ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
