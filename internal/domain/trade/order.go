package trade

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem is one product line of an order. Price is the product price
// captured when the line was created and does not follow later price changes.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Details   json.RawMessage
	CreatedAt time.Time
}

// NewOrderItem creates an order item for the given order
func NewOrderItem(orderID, productID uuid.UUID, quantity int, price decimal.Decimal, details json.RawMessage) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if len(details) == 0 {
		details = json.RawMessage("{}")
	} else if !json.Valid(details) {
		return nil, shared.NewDomainError("INVALID_DETAILS", "Item details must be valid JSON")
	}
	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		Details:   details,
		CreatedAt: time.Now(),
	}, nil
}

// Subtotal returns price × quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a sale of products to a customer, processed by an employee.
// Total always equals the sum of item subtotals.
type Order struct {
	shared.BaseEntity
	CustomerID int64
	EmployeeID uuid.UUID
	Total      decimal.Decimal
	Status     OrderStatus
	Items      []OrderItem
}

// NewOrder creates a pending order with no items
func NewOrder(customerID int64, employeeID uuid.UUID) (*Order, error) {
	if err := validateParties(customerID, employeeID); err != nil {
		return nil, err
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		EmployeeID: employeeID,
		Total:      decimal.Zero,
		Status:     OrderStatusPending,
		Items:      make([]OrderItem, 0),
	}, nil
}

func validateParties(customerID int64, employeeID uuid.UUID) error {
	if customerID <= 0 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	if employeeID == uuid.Nil {
		return shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID is required")
	}
	return nil
}

// AddItem appends a line for a product that is not yet on the order
func (o *Order) AddItem(productID uuid.UUID, quantity int, price decimal.Decimal, details json.RawMessage) (*OrderItem, error) {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}
	item, err := NewOrderItem(o.ID, productID, quantity, price, details)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	return &o.Items[len(o.Items)-1], nil
}

// ClearItems drops every line and resets the total
func (o *Order) ClearItems() {
	o.Items = make([]OrderItem, 0)
	o.recalculateTotal()
}

// SetItems replaces the lines with already-stored items
func (o *Order) SetItems(items []OrderItem) {
	o.Items = items
	o.recalculateTotal()
}

// ReassignParties changes the customer and the processing employee
func (o *Order) ReassignParties(customerID int64, employeeID uuid.UUID) error {
	if err := validateParties(customerID, employeeID); err != nil {
		return err
	}
	o.CustomerID = customerID
	o.EmployeeID = employeeID
	o.Touch()
	return nil
}

// TransitionTo moves the order to the target status
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid order status %q", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.Touch()
	return nil
}

// ItemCount returns the total number of units on the order
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.Total = total
}

// Line is a requested product quantity, before prices are known
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// ValidateLines checks a requested item set: at least one line, quantities
// of at least 1, and no product listed twice.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if line.Quantity < 1 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if _, dup := seen[line.ProductID]; dup {
			return shared.NewDomainError("DUPLICATE_PRODUCT", fmt.Sprintf("Product %s is listed more than once", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}
