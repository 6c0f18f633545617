package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/domain/trade"
	"github.com/retaildash/backend/internal/infrastructure/persistence"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockPurger struct {
	mock.Mock
}

func (m *MockPurger) PurgeAll(ctx context.Context) (shared.PurgeReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.PurgeReport), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateAll(ctx context.Context) {
	m.Called(ctx)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// seedStore writes one customer, one employee, one product and two orders,
// the second of them cancelled
func seedStore(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	customer, err := partner.NewCustomer(partner.Contact{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(db).Create(ctx, customer))

	seller, err := partner.NewEmployee(partner.Contact{Name: "Sam Seller", Email: "sam@example.com"}, partner.EmployeeJob{
		Position:   "Associate",
		Department: partner.DepartmentSales,
		Salary:     decimal.NewFromInt(40000),
		HireDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormEmployeeRepository(db).Create(ctx, seller))

	details := catalog.ChargerDetails{Wattage: catalog.ChargerWattage20W, IsFastCharging: true}
	charger, err := catalog.NewProduct(catalog.ProductInfo{
		Name:   "20W Charger",
		Price:  decimal.RequireFromString("19.99"),
		Stock:  10,
		Status: catalog.ProductStatusAvailable,
	}, details)
	require.NoError(t, err)
	products := persistence.NewGormProductRepository(db)
	require.NoError(t, products.Create(ctx, charger))
	require.NoError(t, products.SaveDetails(ctx, charger.ID, details))

	orders := persistence.NewGormOrderRepository(db)
	for i, qty := range []int{2, 5} {
		order, err := trade.NewOrder(customer.ID, seller.ID)
		require.NoError(t, err)
		item, err := order.AddItem(charger.ID, qty, charger.Price, []byte(`{"name":"20W Charger"}`))
		require.NoError(t, err)
		require.NoError(t, orders.Create(ctx, order))
		require.NoError(t, orders.CreateItem(ctx, item))
		if i == 1 {
			require.NoError(t, order.TransitionTo(trade.OrderStatusCancelled))
			require.NoError(t, orders.Update(ctx, order))
		}
	}
}

func TestDashboardService_Summary(t *testing.T) {
	db := newTestDB(t)
	seedStore(t, db)
	svc := NewDashboardService(
		persistence.NewGormCustomerRepository(db),
		persistence.NewGormEmployeeRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormOrderRepository(db),
	)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Customers)
	assert.Equal(t, int64(1), summary.Employees)
	assert.Equal(t, int64(1), summary.Products)
	assert.Equal(t, int64(2), summary.Orders)
	assert.Equal(t, int64(1), summary.OrdersByStatus["pending"])
	assert.Equal(t, int64(1), summary.OrdersByStatus["cancelled"])
	assert.Equal(t, int64(0), summary.OrdersByStatus["completed"])
	assert.True(t, decimal.RequireFromString("39.98").Equal(summary.Revenue), "revenue %s", summary.Revenue)
}

func TestPurgeService_Purge(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong phrase purges nothing", func(t *testing.T) {
		purger := new(MockPurger)
		svc := NewPurgeService(purger, "", zap.NewNop())

		_, err := svc.Purge(ctx, PurgeRequest{Confirm: "delete all"})

		assert.ErrorIs(t, err, ErrConfirmationMismatch)
		purger.AssertNotCalled(t, "PurgeAll", mock.Anything)
	})

	t.Run("configured phrase", func(t *testing.T) {
		purger := new(MockPurger)
		svc := NewPurgeService(purger, "WIPE", zap.NewNop())
		purger.On("PurgeAll", mock.Anything).Return(shared.PurgeReport{"orders": 2}, nil).Once()

		resp, err := svc.Purge(ctx, PurgeRequest{Confirm: " WIPE "})

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("failure leaves caches alone", func(t *testing.T) {
		purger := new(MockPurger)
		cache := new(MockCache)
		svc := NewPurgeService(purger, "", zap.NewNop())
		svc.AddCache(cache)
		purger.On("PurgeAll", mock.Anything).Return(nil, errors.New("deadlock detected")).Once()

		_, err := svc.Purge(ctx, PurgeRequest{Confirm: DefaultConfirmationPhrase})

		assert.EqualError(t, err, "deadlock detected")
		cache.AssertNotCalled(t, "InvalidateAll", mock.Anything)
	})

	t.Run("removes every record and clears caches", func(t *testing.T) {
		db := newTestDB(t)
		seedStore(t, db)
		cache := new(MockCache)
		cache.On("InvalidateAll", mock.Anything).Once()
		svc := NewPurgeService(persistence.NewGormPurger(db), DefaultConfirmationPhrase, zap.NewNop())
		svc.AddCache(cache)

		resp, err := svc.Purge(ctx, PurgeRequest{Confirm: "DELETE ALL"})

		require.NoError(t, err)
		assert.Positive(t, resp.Total)
		cache.AssertExpectations(t)
		for _, model := range models.AllModels() {
			var n int64
			require.NoError(t, db.Model(model).Count(&n).Error)
			assert.Zero(t, n, "%T", model)
		}
	})
}
