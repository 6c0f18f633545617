package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("reads join the detail row of each category", func(t *testing.T) {
		db := newSQLiteDB(t)
		phone := seedProduct(t, db, "iPhone 15", 3, catalog.IPhoneDetails{Color: catalog.IPhoneColorBlue, Storage: catalog.IPhoneStorage256GB})
		seedProduct(t, db, "Lightning Cable", 12, catalog.CableDetails{Type: catalog.CableTypeUSBCToLightning, Length: "2m"})
		seedProduct(t, db, "AirPods", 4, catalog.AirPodDetails{})
		repo := NewGormProductRepository(db)

		got, err := repo.FindByID(ctx, phone.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.CategoryIPhone, got.Category())
		assert.Equal(t, catalog.IPhoneDetails{Color: catalog.IPhoneColorBlue, Storage: catalog.IPhoneStorage256GB}, got.Details())

		all, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, all, 3)
		for _, p := range all {
			require.NotNil(t, p.Details(), p.Name)
			assert.Equal(t, p.Category(), p.Details().Category())
		}
	})

	t.Run("filters by category and search", func(t *testing.T) {
		db := newSQLiteDB(t)
		seedProduct(t, db, "iPhone 15", 3, catalog.IPhoneDetails{Color: catalog.IPhoneColorBlack, Storage: catalog.IPhoneStorage128GB})
		seedProduct(t, db, "iPhone 15 Pro", 3, catalog.IPhoneDetails{Color: catalog.IPhoneColorSilver, Storage: catalog.IPhoneStorage1TB})
		seedProduct(t, db, "30W Charger", 9, catalog.ChargerDetails{Wattage: catalog.ChargerWattage30W})
		repo := NewGormProductRepository(db)

		filter := shared.DefaultFilter()
		filter.Filters["category"] = string(catalog.CategoryIPhone)
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		filter = shared.DefaultFilter()
		filter.Search = "PRO"
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "iPhone 15 Pro", found[0].Name)
	})

	t.Run("save details replaces the existing row", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "Charger", 5, catalog.ChargerDetails{Wattage: catalog.ChargerWattage5W})
		repo := NewGormProductRepository(db)

		require.NoError(t, repo.SaveDetails(ctx, p.ID, catalog.ChargerDetails{Wattage: catalog.ChargerWattage67W, IsFastCharging: true}))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.ChargerDetails{Wattage: catalog.ChargerWattage67W, IsFastCharging: true}, got.Details())
		var n int64
		require.NoError(t, db.Model(&models.ChargerDetailsModel{}).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete removes base and detail rows", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "AirPods", 1, catalog.AirPodDetails{})
		repo := NewGormProductRepository(db)

		require.NoError(t, repo.Delete(ctx, p.ID))

		_, err := repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		var n int64
		require.NoError(t, db.Model(&models.AirPodDetailsModel{}).Count(&n).Error)
		assert.Zero(t, n)
		assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrNotFound)
	})

	t.Run("update persists base fields only", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "Cable", 5, catalog.CableDetails{Type: catalog.CableTypeUSBAToLightning, Length: "1m"})
		repo := NewGormProductRepository(db)

		info := p.Info()
		info.Name = "Braided Cable"
		info.Status = catalog.ProductStatusUnavailable
		require.NoError(t, p.Update(info, catalog.CableDetails{Type: catalog.CableTypeUSBAToLightning, Length: "3m"}))
		require.NoError(t, repo.Update(ctx, p))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Braided Cable", got.Name)
		assert.Equal(t, catalog.ProductStatusUnavailable, got.Status)
		assert.Equal(t, "1m", got.Details().(catalog.CableDetails).Length)
	})

	t.Run("product without its detail row is an error", func(t *testing.T) {
		db := newSQLiteDB(t)
		p := seedProduct(t, db, "USB-C Cable", 4, catalog.CableDetails{Type: catalog.CableTypeUSBCToUSBC, Length: "1m"})
		seedProduct(t, db, "AirPods", 2, catalog.AirPodDetails{})
		require.NoError(t, db.Where("product_id = ?", p.ID).Delete(&models.CableDetailsModel{}).Error)
		repo := NewGormProductRepository(db)

		got, err := repo.FindByID(ctx, p.ID)
		assert.Nil(t, got)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, models.ErrCodeDetailsMissing, domainErr.Code)
		assert.Contains(t, domainErr.Message, "Cable")

		_, err = repo.FindAll(ctx, shared.DefaultFilter())
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, models.ErrCodeDetailsMissing, domainErr.Code)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		db := newSQLiteDB(t)
		_, err := NewGormProductRepository(db).FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
