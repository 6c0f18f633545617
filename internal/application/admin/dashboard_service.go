package admin

import (
	"context"
	"fmt"

	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/domain/trade"
)

var dashboardStatuses = []trade.OrderStatus{
	trade.OrderStatusPending,
	trade.OrderStatusProcessing,
	trade.OrderStatusCompleted,
	trade.OrderStatusCancelled,
}

// DashboardService aggregates the summary figures for the home page
type DashboardService struct {
	customerRepo partner.CustomerRepository
	employeeRepo partner.EmployeeRepository
	productRepo  catalog.ProductRepository
	orderRepo    trade.OrderRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	customerRepo partner.CustomerRepository,
	employeeRepo partner.EmployeeRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
) *DashboardService {
	return &DashboardService{
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

// Summary returns record counts and the revenue of non-cancelled orders
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummaryResponse, error) {
	all := shared.DefaultFilter()
	resp := &DashboardSummaryResponse{OrdersByStatus: make(map[string]int64, len(dashboardStatuses))}

	var err error
	if resp.Customers, err = s.customerRepo.Count(ctx, all); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if resp.Employees, err = s.employeeRepo.Count(ctx, all); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	if resp.Products, err = s.productRepo.Count(ctx, all); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	for _, status := range dashboardStatuses {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(status)
		n, err := s.orderRepo.Count(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("count %s orders: %w", status, err)
		}
		resp.OrdersByStatus[string(status)] = n
		resp.Orders += n
	}
	if resp.Revenue, err = s.orderRepo.SumTotals(ctx); err != nil {
		return nil, fmt.Errorf("sum order totals: %w", err)
	}
	return resp, nil
}
