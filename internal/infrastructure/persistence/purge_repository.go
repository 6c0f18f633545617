package persistence

import (
	"context"
	"fmt"

	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurger removes every business record from the store
type GormPurger struct {
	db *gorm.DB
}

// NewGormPurger creates a new GormPurger
func NewGormPurger(db *gorm.DB) *GormPurger {
	return &GormPurger{db: db}
}

// PurgeAll deletes all rows in dependency order (children first) inside a single transaction
func (p *GormPurger) PurgeAll(ctx context.Context) (shared.PurgeReport, error) {
	all := models.AllModels()
	report := make(shared.PurgeReport, len(all))

	err := inTransaction(ctx, p.db, func(tx *gorm.DB) error {
		for i := len(all) - 1; i >= 0; i-- {
			model := all[i]
			table := tableName(model)
			result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model)
			if result.Error != nil {
				return fmt.Errorf("failed to purge %s: %w", table, result.Error)
			}
			report[table] = result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

var _ shared.Purger = (*GormPurger)(nil)

func tableName(model any) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", model)
}
