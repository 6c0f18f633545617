package trade

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/retaildash/backend/internal/application/catalog"
	"github.com/retaildash/backend/internal/application/saga"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/domain/trade"
	"github.com/retaildash/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCacheInvalidator drops cached product reads after stock changes
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

// OrderMetricsRecorder receives order business metrics
type OrderMetricsRecorder interface {
	RecordOrderCreated(ctx context.Context, total decimal.Decimal)
	RecordStockRejection(ctx context.Context)
}

// OrderService manages the order lifecycle. Every item row written or
// removed is paired with the opposite stock adjustment on its product; the
// pairs run as saga steps so a failure part way through is compensated.
type OrderService struct {
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	employeeRepo partner.EmployeeRepository
	productRepo  catalog.ProductRepository
	stock        catalog.StockGateway
	runner       *saga.Runner
	logger       *zap.Logger

	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	cache          ProductCacheInvalidator
	metrics        OrderMetricsRecorder
}

// NewOrderService creates a new OrderService.
// productRepo must read the store directly; stock checks must not see cached values.
func NewOrderService(
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	employeeRepo partner.EmployeeRepository,
	productRepo catalog.ProductRepository,
	stock catalog.StockGateway,
	runner *saga.Runner,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		stock:        stock,
		runner:       runner,
		logger:       logger,
	}
}

// SetIdempotencyStore enables rejection of repeated create requests
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	if !cfg.Enabled {
		return
	}
	if cfg.TTL <= 0 {
		cfg.TTL = shared.DefaultIdempotencyConfig().TTL
	}
	s.idempotency = store
	s.idempotencyTTL = cfg.TTL
}

// SetProductCache sets the cache to invalidate after stock changes
func (s *OrderService) SetProductCache(cache ProductCacheInvalidator) {
	s.cache = cache
}

// SetMetrics sets the order metrics recorder
func (s *OrderService) SetMetrics(m OrderMetricsRecorder) {
	s.metrics = m
}

// Create places an order. All checks, including stock for every line, run
// before the first write; a rejected order leaves nothing behind.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrCustomerID, req.CustomerID,
		telemetry.SpanAttrEmployeeID, req.EmployeeID.String(),
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer span.End()

	release, err := s.claimRequest(ctx, req.IdempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := s.create(ctx, req)
	if err != nil {
		release()
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, order.ID.String())

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, order.Total)
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("employee_id", order.EmployeeID.String()),
		zap.Int("items_count", len(order.Items)),
		zap.String("total", order.Total.String()),
	)
	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) create(ctx context.Context, req CreateOrderRequest) (*trade.Order, error) {
	lines := toLines(req.Items)
	if err := trade.ValidateLines(lines); err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	if err := s.checkProcessor(ctx, req.EmployeeID); err != nil {
		return nil, err
	}
	products, err := s.loadProducts(ctx, lines, nil)
	if err != nil {
		return nil, err
	}
	if err := s.precheckStock(ctx, lines, products, nil); err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(req.CustomerID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := addLines(order, lines, products); err != nil {
		return nil, err
	}

	sg := saga.New("order.create").Step("insert order",
		func(ctx context.Context) error { return s.orderRepo.Create(ctx, order) },
		func(ctx context.Context) error { return s.orderRepo.Delete(ctx, order.ID) },
	)
	s.addItemSteps(sg, order.Items)

	err = s.runner.Run(ctx, sg)
	s.invalidateProducts(ctx, order.Items)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.EmployeeID != nil {
		domainFilter.Filters["employee_id"] = *filter.EmployeeID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderListItemResponses(orders), total, nil
}

// Update changes the parties, the status and optionally the whole item set
// of an order. Replacing the items returns the stock of the old lines before
// the new lines are checked against stock and taken.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update", telemetry.SpanAttrOrderID, id.String())
	defer span.End()

	order, err := s.update(ctx, id, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := *order
	oldItems := order.Items

	customerID, employeeID := order.CustomerID, order.EmployeeID
	if req.CustomerID != nil && *req.CustomerID != customerID {
		if err := s.checkCustomer(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
		customerID = *req.CustomerID
	}
	if req.EmployeeID != nil && *req.EmployeeID != employeeID {
		if err := s.checkProcessor(ctx, *req.EmployeeID); err != nil {
			return nil, err
		}
		employeeID = *req.EmployeeID
	}
	if customerID != order.CustomerID || employeeID != order.EmployeeID {
		if err := order.ReassignParties(customerID, employeeID); err != nil {
			return nil, err
		}
	}

	replaceItems := req.Items != nil
	if replaceItems {
		if isTerminal(order.Status) {
			return nil, shared.NewDomainErrorf("INVALID_STATE", "Items of a %s order cannot be changed", order.Status)
		}
		lines := toLines(req.Items)
		if err := trade.ValidateLines(lines); err != nil {
			return nil, err
		}
		held := heldQuantities(oldItems)
		products, err := s.loadProducts(ctx, lines, held)
		if err != nil {
			return nil, err
		}
		if err := s.precheckStock(ctx, lines, products, held); err != nil {
			return nil, err
		}
		order.ClearItems()
		if err := addLines(order, lines, products); err != nil {
			return nil, err
		}
		order.Touch()
	}

	if req.Status != nil {
		if err := order.TransitionTo(trade.OrderStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	sg := saga.New("order.update").Step("update order",
		func(ctx context.Context) error { return s.orderRepo.Update(ctx, order) },
		func(ctx context.Context) error { return s.orderRepo.Update(ctx, &previous) },
	)
	if replaceItems {
		s.removeItemSteps(sg, oldItems)
		s.addItemSteps(sg, order.Items)
	}

	err = s.runner.Run(ctx, sg)
	if replaceItems {
		s.invalidateProducts(ctx, oldItems, order.Items)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
		zap.Bool("items_replaced", replaceItems),
	)
	return order, nil
}

// Delete deletes an order after returning its items to stock. A failed
// stock restore aborts the delete unless force is set; with force the
// failure is logged and reported and the order is deleted anyway.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID, force bool) (*DeleteOrderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "delete", telemetry.SpanAttrOrderID, id.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &DeleteOrderResult{OrderID: id}
	onSkip := func(item trade.OrderItem) {
		result.UnrestoredItems = append(result.UnrestoredItems, item.ProductID)
	}

	sg := saga.New("order.delete")
	s.restoreStockSteps(sg, order.Items, force, onSkip)
	// item rows go with the order
	sg.Step("delete order",
		func(ctx context.Context) error { return s.orderRepo.Delete(ctx, id) },
		nil,
	)

	err = s.runner.Run(ctx, sg)
	s.invalidateProducts(ctx, order.Items)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result.RestoredItems = len(order.Items) - len(result.UnrestoredItems)
	s.logger.Info("order deleted",
		zap.String("order_id", id.String()),
		zap.Bool("force", force),
		zap.Int("restored_items", result.RestoredItems),
		zap.Int("unrestored_items", len(result.UnrestoredItems)),
	)
	return result, nil
}

// claimRequest marks an idempotency key as used. The returned func releases
// the key again so a failed request can be retried.
func (s *OrderService) claimRequest(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if key == "" || s.idempotency == nil {
		return noop, nil
	}
	storeKey := "order:create:" + key
	fresh, err := s.idempotency.MarkProcessed(ctx, storeKey, s.idempotencyTTL)
	if err != nil {
		// the store is an optimisation over the pre-checks; do not block orders on it
		s.logger.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !fresh {
		return nil, shared.ErrDuplicateRequest.WithDetails(map[string]any{"idempotency_key": key})
	}
	return func() {
		if err := s.idempotency.Release(context.WithoutCancel(ctx), storeKey); err != nil {
			s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *OrderService) checkCustomer(ctx context.Context, id int64) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainErrorf("CUSTOMER_NOT_FOUND", "Customer %d does not exist", id)
		}
		return err
	}
	return nil
}

func (s *OrderService) checkProcessor(ctx context.Context, id uuid.UUID) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainErrorf("EMPLOYEE_NOT_FOUND", "Employee %s does not exist", id)
		}
		return err
	}
	if !employee.CanProcessOrders() {
		return shared.NewDomainErrorf("EMPLOYEE_NOT_ELIGIBLE",
			"%s cannot process orders: only active Sales employees can", employee.Name)
	}
	return nil
}

// loadProducts fetches every product of the lines. Products already held by
// the order may stay on it after being made unavailable; new ones must be
// available.
func (s *OrderService) loadProducts(ctx context.Context, lines []trade.Line, held map[uuid.UUID]int) (map[uuid.UUID]*catalog.Product, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(lines))
	for _, line := range lines {
		p, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainErrorf("PRODUCT_NOT_FOUND", "Product %s does not exist", line.ProductID)
			}
			return nil, err
		}
		if _, onOrder := held[line.ProductID]; !onOrder && p.Status != catalog.ProductStatusAvailable {
			return nil, shared.NewDomainErrorf("PRODUCT_UNAVAILABLE", "%s is not available for sale", p.Name).
				WithDetails(map[string]any{"product_id": p.ID.String()})
		}
		products[line.ProductID] = p
	}
	return products, nil
}

// precheckStock confirms stock for every line before anything is written.
// held is stock the order itself will return first.
func (s *OrderService) precheckStock(ctx context.Context, lines []trade.Line, products map[uuid.UUID]*catalog.Product, held map[uuid.UUID]int) error {
	for _, line := range lines {
		p := products[line.ProductID]
		available := p.Stock + held[line.ProductID]
		if available < line.Quantity {
			if s.metrics != nil {
				s.metrics.RecordStockRejection(ctx)
			}
			return shared.NewDomainErrorf(shared.ErrInsufficientStock.Code,
				"Insufficient stock for %s: available %d, requested %d", p.Name, available, line.Quantity,
			).WithDetails(map[string]any{
				"product_id":   p.ID.String(),
				"product_name": p.Name,
				"available":    available,
				"requested":    line.Quantity,
			})
		}
	}
	return nil
}

// addItemSteps inserts each item and takes its quantity from stock
func (s *OrderService) addItemSteps(sg *saga.Saga, items []trade.OrderItem) {
	for _, item := range items {
		product := item.ProductID.String()
		sg.Step("insert item "+product,
			func(ctx context.Context) error { return s.orderRepo.CreateItem(ctx, &item) },
			func(ctx context.Context) error { return s.orderRepo.DeleteItem(ctx, item.ID) },
		)
		sg.Step("decrease stock "+product,
			func(ctx context.Context) error { return s.stock.DecreaseStock(ctx, item.ProductID, item.Quantity) },
			func(ctx context.Context) error { return s.stock.IncreaseStock(ctx, item.ProductID, item.Quantity) },
		)
	}
}

// removeItemSteps deletes each item row and returns its quantity to stock
func (s *OrderService) removeItemSteps(sg *saga.Saga, items []trade.OrderItem) {
	for _, item := range items {
		product := item.ProductID.String()
		sg.Step("delete item "+product,
			func(ctx context.Context) error { return s.orderRepo.DeleteItem(ctx, item.ID) },
			func(ctx context.Context) error { return s.orderRepo.CreateItem(ctx, &item) },
		)
		sg.Step("restore stock "+product,
			func(ctx context.Context) error { return s.stock.IncreaseStock(ctx, item.ProductID, item.Quantity) },
			func(ctx context.Context) error { return s.stock.DecreaseStock(ctx, item.ProductID, item.Quantity) },
		)
	}
}

// restoreStockSteps returns the quantity of each item to stock. With force,
// a failed restore is logged and handed to onSkip instead of failing the saga.
// Forced restores run in a savepoint so a database error does not abort the
// rest of the delete.
func (s *OrderService) restoreStockSteps(sg *saga.Saga, items []trade.OrderItem, force bool, onSkip func(trade.OrderItem)) {
	for _, item := range items {
		product := item.ProductID.String()
		restored := false
		increase := func(ctx context.Context) error {
			return s.stock.IncreaseStock(ctx, item.ProductID, item.Quantity)
		}
		sg.Step("restore stock "+product,
			func(ctx context.Context) error {
				var err error
				if force {
					err = s.runner.Savepoint(ctx, increase)
				} else {
					err = increase(ctx)
				}
				if err == nil {
					restored = true
					return nil
				}
				if !force {
					return err
				}
				s.logger.Warn("stock restore failed, deleting anyway",
					zap.String("order_id", item.OrderID.String()),
					zap.String("product_id", product),
					zap.Int("quantity", item.Quantity),
					zap.Error(err),
				)
				if onSkip != nil {
					onSkip(item)
				}
				return nil
			},
			func(ctx context.Context) error {
				if !restored {
					return nil
				}
				return s.stock.DecreaseStock(ctx, item.ProductID, item.Quantity)
			},
		)
	}
}

func (s *OrderService) invalidateProducts(ctx context.Context, itemSets ...[]trade.OrderItem) {
	if s.cache == nil {
		return
	}
	var ids []uuid.UUID
	for _, items := range itemSets {
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) > 0 {
		s.cache.Invalidate(ctx, ids...)
	}
}

func addLines(order *trade.Order, lines []trade.Line, products map[uuid.UUID]*catalog.Product) error {
	for _, line := range lines {
		p := products[line.ProductID]
		if _, err := order.AddItem(line.ProductID, line.Quantity, p.Price, itemSnapshot(p)); err != nil {
			return err
		}
	}
	return nil
}

// itemSnapshot records what the product looked like when it was ordered
func itemSnapshot(p *catalog.Product) json.RawMessage {
	snapshot := struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		catalogapp.ProductDetailsDTO
	}{
		Name:              p.Name,
		Category:          string(p.Category()),
		ProductDetailsDTO: catalogapp.ToProductDetailsDTO(p.Details()),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

func heldQuantities(items []trade.OrderItem) map[uuid.UUID]int {
	held := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		held[item.ProductID] += item.Quantity
	}
	return held
}

func isTerminal(status trade.OrderStatus) bool {
	return status == trade.OrderStatusCompleted || status == trade.OrderStatusCancelled
}
