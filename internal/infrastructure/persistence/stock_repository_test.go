package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockGateway_DecreaseStock_SQL(t *testing.T) {
	t.Run("issues a single conditional update", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1,"updated_at"=\$2 WHERE id = \$3 AND stock >= \$4`).
			WithArgs(3, sqlmock.AnyArg(), productID, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewGormStockGateway(db).DecreaseStock(context.Background(), productID, 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports insufficient stock when no row qualifies", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stock"}).
				AddRow(productID, "iPhone 15", 2))

		err := NewGormStockGateway(db).DecreaseStock(context.Background(), productID, 5)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 2, de.Details["available"])
		assert.Equal(t, 5, de.Details["requested"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantities without touching the store", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		gateway := NewGormStockGateway(db)

		err := gateway.DecreaseStock(context.Background(), uuid.New(), 0)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		err = gateway.IncreaseStock(context.Background(), uuid.New(), -2)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockGateway_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("decrease then increase restores stock", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "USB-C Cable", 10, catalog.CableDetails{Type: catalog.CableTypeUSBCToUSBC, Length: "1m"})
		gw := NewGormStockGateway(db)

		require.NoError(t, gw.DecreaseStock(ctx, p.ID, 4))
		require.NoError(t, gw.IncreaseStock(ctx, p.ID, 4))

		var m models.ProductModel
		require.NoError(t, db.First(&m, "id = ?", p.ID).Error)
		assert.Equal(t, 10, m.Stock)
	})

	t.Run("never goes below zero", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "AirPods Pro", 2, catalog.AirPodDetails{})
		gw := NewGormStockGateway(db)

		err := gw.DecreaseStock(ctx, p.ID, 3)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		var m models.ProductModel
		require.NoError(t, db.First(&m, "id = ?", p.ID).Error)
		assert.Equal(t, 2, m.Stock)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		db := newSQLiteDB(t)
		gw := NewGormStockGateway(db)

		assert.ErrorIs(t, gw.DecreaseStock(ctx, uuid.New(), 1), shared.ErrNotFound)
		assert.ErrorIs(t, gw.IncreaseStock(ctx, uuid.New(), 1), shared.ErrNotFound)
	})

	t.Run("concurrent decreases sell exactly the available units", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "20W Charger", 5, catalog.ChargerDetails{Wattage: catalog.ChargerWattage20W, IsFastCharging: true})
		gw := NewGormStockGateway(db)

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			sold int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := gw.DecreaseStock(ctx, p.ID, 1); err == nil {
					mu.Lock()
					sold++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		var m models.ProductModel
		require.NoError(t, db.First(&m, "id = ?", p.ID).Error)
		assert.Equal(t, 5, sold)
		assert.Equal(t, 0, m.Stock)
	})
}
