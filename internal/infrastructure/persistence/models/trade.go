package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderModel is the persistence model for the order header
type OrderModel struct {
	BaseModel
	CustomerID int64            `gorm:"not null;index"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Total      decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	Status     string           `gorm:"type:varchar(20);not null;index"`
	Items      []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
// Items are included only when they were preloaded.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		EmployeeID: m.EmployeeID,
		Total:      m.Total,
		Status:     trade.OrderStatus(m.Status),
		Items:      make([]trade.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		o.Items = append(o.Items, *m.Items[i].ToDomain())
	}
	return o
}

// FromDomain populates the header model from a domain Order; items are not copied
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.EmployeeID = o.EmployeeID
	m.Total = o.Total
	m.Status = string(o.Status)
}

// OrderModelFromDomain creates a new header model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for one order line
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Details   datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *trade.OrderItem {
	details := json.RawMessage(m.Details)
	if len(details) == 0 {
		details = json.RawMessage("{}")
	}
	return &trade.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Price:     m.Price,
		Details:   details,
		CreatedAt: m.CreatedAt,
	}
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem
func OrderItemModelFromDomain(i *trade.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:        i.ID,
		OrderID:   i.OrderID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		Price:     i.Price,
		Details:   datatypes.JSON(i.Details),
		CreatedAt: i.CreatedAt,
	}
}
