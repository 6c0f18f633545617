package partner

import (
	"context"

	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.contact())
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.Int64("customer_id", customer.ID))
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update replaces a customer's contact fields
func (s *CustomerService) Update(ctx context.Context, id int64, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateContact(req.contact()); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer. Customers with orders cannot be deleted.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}
