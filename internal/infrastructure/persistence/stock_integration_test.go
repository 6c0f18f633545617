//go:build integration

package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/migration"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the shipped migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("retail_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)

	migrationsPath, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrationsPath, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestStockGateway_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newPostgresDB(t)
	ctx := context.Background()

	t.Run("parallel decreases never oversell", func(t *testing.T) {
		p := seedProduct(t, db, "iPhone 15", 7, catalog.IPhoneDetails{Color: catalog.IPhoneColorPink, Storage: catalog.IPhoneStorage128GB})
		gw := NewGormStockGateway(db)

		var (
			wg       sync.WaitGroup
			sold     atomic.Int64
			rejected atomic.Int64
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := gw.DecreaseStock(ctx, p.ID, 1)
				switch {
				case err == nil:
					sold.Add(1)
				case errors.Is(err, shared.ErrInsufficientStock):
					rejected.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		var m models.ProductModel
		require.NoError(t, db.First(&m, "id = ?", p.ID).Error)
		assert.Equal(t, int64(7), sold.Load())
		assert.Equal(t, int64(13), rejected.Load())
		assert.Equal(t, 0, m.Stock)
	})

	t.Run("deleting a referenced customer is refused", func(t *testing.T) {
		p := seedProduct(t, db, "AirPods", 3, catalog.AirPodDetails{})
		order := seedOrder(t, db, "pending", p)

		err := NewGormCustomerRepository(db).Delete(ctx, order.CustomerID)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "IN_USE", de.Code)
	})
}
