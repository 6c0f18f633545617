package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with the full schema.
// A single connection keeps every statement on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
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

// newMockDB creates a GORM connection backed by sqlmock using the postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedCustomer(t *testing.T, db *gorm.DB) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "555-0100",
		Address: "1 Main St",
	})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Create(context.Background(), c))
	return c
}

func seedEmployee(t *testing.T, db *gorm.DB, name string, dept partner.Department) *partner.Employee {
	t.Helper()
	e, err := partner.NewEmployee(partner.Contact{
		Name:  name,
		Email: "staff@example.com",
	}, partner.EmployeeJob{
		Position:   "Associate",
		Department: dept,
		Salary:     decimal.NewFromInt(40000),
		HireDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormEmployeeRepository(db).Create(context.Background(), e))
	return e
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, details catalog.Details) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInfo{
		Name:   name,
		Price:  decimal.RequireFromString("19.99"),
		Stock:  stock,
		Status: catalog.ProductStatusAvailable,
	}, details)
	require.NoError(t, err)
	repo := NewGormProductRepository(db)
	require.NoError(t, repo.Create(context.Background(), p))
	require.NoError(t, repo.SaveDetails(context.Background(), p.ID, details))
	return p
}
