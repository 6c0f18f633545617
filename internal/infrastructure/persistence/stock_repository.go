package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockGateway implements StockGateway with conditional UPDATE statements.
// The stock >= qty guard in the WHERE clause makes the check and the write a
// single atomic step, so concurrent orders can never drive stock negative.
type GormStockGateway struct {
	db *gorm.DB
}

// NewGormStockGateway creates a new GormStockGateway
func NewGormStockGateway(db *gorm.DB) *GormStockGateway {
	return &GormStockGateway{db: db}
}

// DecreaseStock removes qty units from the product's stock
func (g *GormStockGateway) DecreaseStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidInput.WithDetails(map[string]any{"quantity": qty})
	}
	db := conn(ctx, g.db)
	result := db.Model(&models.ProductModel{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var current models.ProductModel
	err := db.Select("id", "name", "stock").Take(&current, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return shared.NewDomainErrorf(shared.ErrInsufficientStock.Code,
		"Insufficient stock for %s: available %d, requested %d", current.Name, current.Stock, qty,
	).WithDetails(map[string]any{
		"product_id":   productID.String(),
		"product_name": current.Name,
		"available":    current.Stock,
		"requested":    qty,
	})
}

// IncreaseStock adds qty units to the product's stock
func (g *GormStockGateway) IncreaseStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return shared.ErrInvalidInput.WithDetails(map[string]any{"quantity": qty})
	}
	result := conn(ctx, g.db).Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStockGateway implements StockGateway
var _ catalog.StockGateway = (*GormStockGateway)(nil)
