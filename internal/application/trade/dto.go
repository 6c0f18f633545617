package trade

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Order DTOs
// =============================================================================

// OrderItemInput is one requested product line
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID     int64            `json:"customer_id" binding:"required,min=1"`
	EmployeeID     uuid.UUID        `json:"employee_id" binding:"required"`
	Items          []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	IdempotencyKey string           `json:"-"` // Set from the Idempotency-Key header
}

// UpdateOrderRequest represents a request to update an order.
// Nil fields are left unchanged; a non-nil Items replaces every line.
type UpdateOrderRequest struct {
	CustomerID *int64           `json:"customer_id" binding:"omitempty,min=1"`
	EmployeeID *uuid.UUID       `json:"employee_id"`
	Status     *string          `json:"status" binding:"omitempty,oneof=pending processing completed cancelled"`
	Items      []OrderItemInput `json:"items" binding:"omitempty,dive"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=pending processing completed cancelled"`
	CustomerID *int64     `form:"customer_id"`
	EmployeeID *uuid.UUID `form:"employee_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderResponse represents an order with its items
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID int64               `json:"customer_id"`
	EmployeeID uuid.UUID           `json:"employee_id"`
	Total      decimal.Decimal     `json:"total"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	ItemCount  int                 `json:"item_count"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses, without items
type OrderListItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID int64           `json:"customer_id"`
	EmployeeID uuid.UUID       `json:"employee_id"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DeleteOrderResult reports what a delete did to stock
type DeleteOrderResult struct {
	OrderID         uuid.UUID   `json:"order_id"`
	RestoredItems   int         `json:"restored_items"`
	UnrestoredItems []uuid.UUID `json:"unrestored_items,omitempty"` // products whose stock could not be restored (force only)
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(order *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = ToOrderItemResponse(item)
	}
	return OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		EmployeeID: order.EmployeeID,
		Total:      order.Total,
		Status:     string(order.Status),
		Items:      items,
		ItemCount:  order.ItemCount(),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

// ToOrderItemResponse converts a domain OrderItem
func ToOrderItemResponse(item trade.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Subtotal:  item.Subtotal(),
		Details:   item.Details,
		CreatedAt: item.CreatedAt,
	}
}

// ToOrderListItemResponses converts orders for list responses
func ToOrderListItemResponses(orders []trade.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i, o := range orders {
		responses[i] = OrderListItemResponse{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			EmployeeID: o.EmployeeID,
			Total:      o.Total,
			Status:     string(o.Status),
			CreatedAt:  o.CreatedAt,
			UpdatedAt:  o.UpdatedAt,
		}
	}
	return responses
}

func toLines(items []OrderItemInput) []trade.Line {
	lines := make([]trade.Line, len(items))
	for i, item := range items {
		lines[i] = trade.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}
