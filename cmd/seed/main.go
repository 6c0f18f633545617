package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	catalogapp "github.com/retaildash/backend/internal/application/catalog"
	partnerapp "github.com/retaildash/backend/internal/application/partner"
	"github.com/retaildash/backend/internal/application/saga"
	tradeapp "github.com/retaildash/backend/internal/application/trade"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"github.com/retaildash/backend/internal/infrastructure/logger"
	"github.com/retaildash/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedCounts struct {
	customers int
	employees int
	products  int
	orders    int
}

func main() {
	var (
		counts   seedCounts
		seed     uint64
		logLevel string
	)
	flag.IntVar(&counts.customers, "customers", 50, "Number of customers to create")
	flag.IntVar(&counts.employees, "employees", 15, "Number of employees to create")
	flag.IntVar(&counts.products, "products", 10, "Number of products to create per category")
	flag.IntVar(&counts.orders, "orders", 100, "Number of orders to place")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 picks a random one)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	runner := saga.NewRunner(log, saga.WithTransactor(persistence.NewGormTransactor(db.DB)))

	s := &seeder{
		faker:     gofakeit.New(seed),
		log:       log,
		customers: partnerapp.NewCustomerService(customerRepo, log),
		employees: partnerapp.NewEmployeeService(employeeRepo, log),
		products:  catalogapp.NewProductService(productRepo, runner, log),
		orders: tradeapp.NewOrderService(orderRepo, customerRepo, employeeRepo, productRepo,
			persistence.NewGormStockGateway(db.DB), runner, log),
	}

	start := time.Now()
	if err := s.run(context.Background(), counts); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding completed", zap.Duration("elapsed", time.Since(start)))
}

type seeder struct {
	faker     *gofakeit.Faker
	log       *zap.Logger
	customers *partnerapp.CustomerService
	employees *partnerapp.EmployeeService
	products  *catalogapp.ProductService
	orders    *tradeapp.OrderService
}

func (s *seeder) run(ctx context.Context, counts seedCounts) error {
	customerIDs := make([]int64, 0, counts.customers)
	for i := 0; i < counts.customers; i++ {
		resp, err := s.customers.Create(ctx, partnerapp.CustomerRequest{
			Name:    s.faker.Name(),
			Email:   s.faker.Email(),
			Phone:   s.faker.Phone(),
			Address: s.faker.Address().Address,
		})
		if err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		customerIDs = append(customerIDs, resp.ID)
	}
	s.log.Info("Customers created", zap.Int("count", len(customerIDs)))

	var processors []uuid.UUID
	departments := partner.AllDepartments()
	for i := 0; i < counts.employees; i++ {
		// every third employee works in Sales so orders have someone to process them
		department := departments[s.faker.Number(0, len(departments)-1)]
		if i%3 == 0 {
			department = partner.DepartmentSales
		}
		resp, err := s.employees.Create(ctx, partnerapp.EmployeeRequest{
			Name:       s.faker.Name(),
			Email:      s.faker.Email(),
			Phone:      s.faker.Phone(),
			Address:    s.faker.Address().Address,
			Position:   s.faker.JobTitle(),
			Department: string(department),
			Salary:     decimal.NewFromInt(int64(s.faker.Number(35, 180)) * 1000),
			HireDate:   time.Now().AddDate(0, 0, -s.faker.Number(30, 3650)).Truncate(24 * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("create employee: %w", err)
		}
		if resp.CanProcessOrders {
			processors = append(processors, resp.ID)
		}
	}
	s.log.Info("Employees created",
		zap.Int("count", counts.employees),
		zap.Int("order_processors", len(processors)))

	var productIDs []uuid.UUID
	for _, category := range catalog.AllCategories() {
		for i := 0; i < counts.products; i++ {
			resp, err := s.products.Create(ctx, s.productRequest(category))
			if err != nil {
				return fmt.Errorf("create %s product: %w", category, err)
			}
			productIDs = append(productIDs, resp.ID)
		}
	}
	s.log.Info("Products created", zap.Int("count", len(productIDs)))

	if len(customerIDs) == 0 || len(processors) == 0 || len(productIDs) == 0 {
		s.log.Warn("Skipping orders, nothing to order with")
		return nil
	}

	placed, rejected := 0, 0
	for i := 0; i < counts.orders; i++ {
		items := make([]tradeapp.OrderItemInput, 0, 3)
		seen := make(map[uuid.UUID]bool)
		for n := s.faker.Number(1, 3); n > 0; n-- {
			productID := productIDs[s.faker.Number(0, len(productIDs)-1)]
			if seen[productID] {
				continue
			}
			seen[productID] = true
			items = append(items, tradeapp.OrderItemInput{ProductID: productID, Quantity: s.faker.Number(1, 3)})
		}
		_, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
			CustomerID: customerIDs[s.faker.Number(0, len(customerIDs)-1)],
			EmployeeID: processors[s.faker.Number(0, len(processors)-1)],
			Items:      items,
		})
		if err != nil {
			// out-of-stock products are expected once the catalog drains
			rejected++
			s.log.Debug("Order rejected", zap.Error(err))
			continue
		}
		placed++
	}
	s.log.Info("Orders placed", zap.Int("placed", placed), zap.Int("rejected", rejected))
	return nil
}

func (s *seeder) productRequest(category catalog.Category) catalogapp.CreateProductRequest {
	req := catalogapp.CreateProductRequest{
		Description: s.faker.Sentence(8),
		Stock:       s.faker.Number(0, 80),
		Status:      string(catalog.ProductStatusAvailable),
		Category:    string(category),
	}
	switch category {
	case catalog.CategoryIPhone:
		colors := catalog.AllIPhoneColors()
		storages := catalog.AllIPhoneStorages()
		req.Details.Color = string(colors[s.faker.Number(0, len(colors)-1)])
		req.Details.Storage = string(storages[s.faker.Number(0, len(storages)-1)])
		req.Name = fmt.Sprintf("iPhone %d %s %s", s.faker.Number(12, 16), req.Details.Storage, req.Details.Color)
		req.Price = decimal.NewFromFloat(s.faker.Price(599, 1599)).Round(2)
	case catalog.CategoryCharger:
		wattages := catalog.AllChargerWattages()
		fast := s.faker.Bool()
		req.Details.Wattage = string(wattages[s.faker.Number(0, len(wattages)-1)])
		req.Details.IsFastCharging = &fast
		req.Name = fmt.Sprintf("%s %s Power Adapter", s.faker.Company(), req.Details.Wattage)
		req.Price = decimal.NewFromFloat(s.faker.Price(9, 59)).Round(2)
	case catalog.CategoryCable:
		types := catalog.AllCableTypes()
		req.Details.CableType = string(types[s.faker.Number(0, len(types)-1)])
		req.Details.Length = fmt.Sprintf("%dm", s.faker.Number(1, 3))
		req.Name = fmt.Sprintf("%s Cable (%s)", req.Details.CableType, req.Details.Length)
		req.Price = decimal.NewFromFloat(s.faker.Price(9, 39)).Round(2)
	default:
		req.Name = "AirPods " + s.faker.ProductName()
		req.Price = decimal.NewFromFloat(s.faker.Price(129, 549)).Round(2)
	}
	return req
}
