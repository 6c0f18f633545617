package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/application/admin"
	catalogapp "github.com/retaildash/backend/internal/application/catalog"
	partnerapp "github.com/retaildash/backend/internal/application/partner"
	"github.com/retaildash/backend/internal/application/saga"
	tradeapp "github.com/retaildash/backend/internal/application/trade"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFlowSetup struct {
	db        *TestDB
	customers *partnerapp.CustomerService
	employees *partnerapp.EmployeeService
	products  *catalogapp.ProductService
	orders    *tradeapp.OrderService
	purge     *admin.PurgeService
}

func newOrderFlowSetup(t *testing.T) *orderFlowSetup {
	t.Helper()
	tdb := NewTestDB(t)
	log := zap.NewNop()

	customerRepo := persistence.NewGormCustomerRepository(tdb.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(tdb.DB)
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	runner := saga.NewRunner(log, saga.WithTransactor(persistence.NewGormTransactor(tdb.DB)))

	return &orderFlowSetup{
		db:        tdb,
		customers: partnerapp.NewCustomerService(customerRepo, log),
		employees: partnerapp.NewEmployeeService(employeeRepo, log),
		products:  catalogapp.NewProductService(productRepo, runner, log),
		orders: tradeapp.NewOrderService(orderRepo, customerRepo, employeeRepo, productRepo,
			persistence.NewGormStockGateway(tdb.DB), runner, log),
		purge: admin.NewPurgeService(persistence.NewGormPurger(tdb.DB), "DELETE ALL", log),
	}
}

func (s *orderFlowSetup) seed(t *testing.T, stock int) (int64, uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	customer, err := s.customers.Create(ctx, partnerapp.CustomerRequest{
		Name:  "Grace Buyer",
		Email: "grace@example.com",
		Phone: "+1 555 0100",
	})
	require.NoError(t, err)

	employee, err := s.employees.Create(ctx, partnerapp.EmployeeRequest{
		Name:       "Sam Seller",
		Email:      "sam@example.com",
		Position:   "Associate",
		Department: "Sales",
		Salary:     decimal.NewFromInt(52000),
		HireDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, employee.CanProcessOrders)

	product, err := s.products.Create(ctx, catalogapp.CreateProductRequest{
		Name:     "iPhone 15 128GB Black",
		Price:    decimal.RequireFromString("999.00"),
		Stock:    stock,
		Status:   "available",
		Category: "iPhone",
		Details:  catalogapp.ProductDetailsDTO{Color: "Black", Storage: "128GB"},
	})
	require.NoError(t, err)

	return customer.ID, employee.ID, product.ID
}

func TestOrderFlow_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newOrderFlowSetup(t)
	ctx := context.Background()
	customerID, employeeID, productID := s.seed(t, 5)

	stockOf := func() int {
		p, err := s.products.GetByID(ctx, productID)
		require.NoError(t, err)
		return p.Stock
	}

	var orderID uuid.UUID

	t.Run("placing an order takes stock", func(t *testing.T) {
		order, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
			CustomerID: customerID,
			EmployeeID: employeeID,
			Items:      []tradeapp.OrderItemInput{{ProductID: productID, Quantity: 3}},
		})
		require.NoError(t, err)
		orderID = order.ID

		assert.True(t, order.Total.Equal(decimal.RequireFromString("2997")))
		assert.Equal(t, 2, stockOf())
	})

	t.Run("insufficient stock leaves the store untouched", func(t *testing.T) {
		_, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
			CustomerID: customerID,
			EmployeeID: employeeID,
			Items:      []tradeapp.OrderItemInput{{ProductID: productID, Quantity: 4}},
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		assert.Equal(t, 2, stockOf())
		assert.Equal(t, int64(1), s.db.Count("orders"))
	})

	t.Run("customer with orders cannot be deleted", func(t *testing.T) {
		err := s.customers.Delete(ctx, customerID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "IN_USE", domainErr.Code)
	})

	t.Run("deleting the order restores stock", func(t *testing.T) {
		result, err := s.orders.Delete(ctx, orderID, false)
		require.NoError(t, err)

		assert.Equal(t, 1, result.RestoredItems)
		assert.Equal(t, 5, stockOf())
		assert.Equal(t, int64(0), s.db.Count("order_items"))
	})
}

func TestForcedDelete_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newOrderFlowSetup(t)
	ctx := context.Background()
	customerID, employeeID, productID := s.seed(t, 5)

	order, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
		CustomerID: customerID,
		EmployeeID: employeeID,
		Items:      []tradeapp.OrderItemInput{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)

	// returning the items now overflows the integer column
	require.NoError(t, s.db.DB.Exec("UPDATE products SET stock = 2147483647 WHERE id = ?", productID).Error)

	t.Run("restore failure aborts a normal delete", func(t *testing.T) {
		_, err := s.orders.Delete(ctx, order.ID, false)
		require.Error(t, err)
		assert.Equal(t, int64(1), s.db.Count("orders"))
		assert.Equal(t, int64(1), s.db.Count("order_items"))
	})

	t.Run("force deletes the order and reports the item", func(t *testing.T) {
		result, err := s.orders.Delete(ctx, order.ID, true)
		require.NoError(t, err)

		assert.Equal(t, 0, result.RestoredItems)
		assert.Equal(t, []uuid.UUID{productID}, result.UnrestoredItems)
		assert.Equal(t, int64(0), s.db.Count("orders"))
		assert.Equal(t, int64(0), s.db.Count("order_items"))

		p, err := s.products.GetByID(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, 2147483647, p.Stock)
	})
}

func TestPurge_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newOrderFlowSetup(t)
	ctx := context.Background()
	customerID, employeeID, productID := s.seed(t, 10)
	_, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
		CustomerID: customerID,
		EmployeeID: employeeID,
		Items:      []tradeapp.OrderItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("wrong confirmation deletes nothing", func(t *testing.T) {
		_, err := s.purge.Purge(ctx, admin.PurgeRequest{Confirm: "delete"})
		require.Error(t, err)
		assert.Equal(t, int64(1), s.db.Count("customers"))
	})

	t.Run("purge empties every table", func(t *testing.T) {
		result, err := s.purge.Purge(ctx, admin.PurgeRequest{Confirm: "DELETE ALL"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), result.Deleted["orders"])
		assert.Equal(t, int64(1), result.Deleted["customers"])
		for _, table := range []string{"order_items", "orders", "iphone_details", "products", "employees", "customers"} {
			assert.Equal(t, int64(0), s.db.Count(table), table)
		}
	})
}
