package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/application/saga"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductCache serves product reads and must be told about committed writes
type ProductCache interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

// ProductService handles product business operations.
// A product is written as a base row followed by its detail row; both
// writes run as one saga so a failed detail write never leaves a product
// without details behind.
type ProductService struct {
	productRepo catalog.ProductRepository
	runner      *saga.Runner
	cache       ProductCache
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, runner *saga.Runner, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		runner:      runner,
		logger:      logger,
	}
}

// SetCache sets the product read cache
func (s *ProductService) SetCache(cache ProductCache) {
	s.cache = cache
}

// Create creates a product together with its category details
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create", "category", req.Category)
	defer span.End()

	category := catalog.Category(req.Category)
	if !category.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CATEGORY", "Unknown product category %q", req.Category)
	}
	details, err := req.Details.ToDomain(category)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(catalog.ProductInfo{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      productStatusOrDefault(req.Status),
	}, details)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String())

	sg := saga.New("product.create").
		Step("insert product",
			func(ctx context.Context) error { return s.productRepo.Create(ctx, product) },
			func(ctx context.Context) error { return s.productRepo.Delete(ctx, product.ID) },
		).
		Step("save details",
			func(ctx context.Context) error { return s.productRepo.SaveDetails(ctx, product.ID, details) },
			nil,
		)
	if err := s.runner.Run(ctx, sg); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category", string(category)),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product with its details
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	var (
		product *catalog.Product
		err     error
	)
	if s.cache != nil {
		product, err = s.cache.FindByID(ctx, id)
	} else {
		product, err = s.productRepo.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update replaces the base fields and details of a product. If the detail
// write fails, the previous base fields are written back.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", telemetry.SpanAttrProductID, id.String())
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := catalog.RestoreProduct(product.BaseEntity, product.Info(), product.Details())

	if req.Category != "" && catalog.Category(req.Category) != product.Category() {
		return nil, shared.NewDomainErrorf("CATEGORY_IMMUTABLE",
			"Product category is %s and cannot change to %s", product.Category(), req.Category)
	}
	details, err := req.Details.ToDomain(product.Category())
	if err != nil {
		return nil, err
	}
	if err := product.Update(catalog.ProductInfo{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      productStatusOrDefault(req.Status),
	}, details); err != nil {
		return nil, err
	}

	sg := saga.New("product.update").
		Step("update product",
			func(ctx context.Context) error { return s.productRepo.Update(ctx, product) },
			func(ctx context.Context) error { return s.productRepo.Update(ctx, previous) },
		).
		Step("save details",
			func(ctx context.Context) error { return s.productRepo.SaveDetails(ctx, product.ID, details) },
			nil,
		)
	err = s.runner.Run(ctx, sg)
	s.invalidate(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product and its details. Products that appear on an
// order cannot be deleted.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ids...)
	}
}
