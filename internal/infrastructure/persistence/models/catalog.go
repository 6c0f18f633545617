package models

import (
	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrCodeDetailsMissing is returned when a product row has no detail row of
// its stored category
const ErrCodeDetailsMissing = "PRODUCT_DETAILS_MISSING"

// ProductModel is the persistence model for the base row of a Product.
// Category-specific attributes live in one of the detail tables below.
type ProductModel struct {
	BaseModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Category    string          `gorm:"type:varchar(20);not null;index"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the base row and its details into a domain Product.
// The details must exist and belong to the stored category.
func (m *ProductModel) ToDomain(details catalog.Details) (*catalog.Product, error) {
	if details == nil || string(details.Category()) != m.Category {
		return nil, shared.NewDomainErrorf(ErrCodeDetailsMissing,
			"Product %s has no %s details", m.ID, m.Category)
	}
	return catalog.RestoreProduct(m.BaseModel.ToDomain(), catalog.ProductInfo{
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		Status:      catalog.ProductStatus(m.Status),
	}, details), nil
}

// FromDomain populates the base row from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.Stock = p.Stock
	m.Category = string(p.Category())
	m.Status = string(p.Status)
}

// ProductModelFromDomain creates a new base row model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// DetailsModel is implemented by every category detail table model
type DetailsModel interface {
	TableName() string
	ProductKey() uuid.UUID
	ToDomain() catalog.Details
}

// IPhoneDetailsModel holds the attributes of an iPhone product
type IPhoneDetailsModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Color     string    `gorm:"type:varchar(20);not null"`
	Storage   string    `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (IPhoneDetailsModel) TableName() string { return "iphone_details" }

// ProductKey returns the owning product ID
func (m IPhoneDetailsModel) ProductKey() uuid.UUID { return m.ProductID }

// ToDomain converts the row to IPhoneDetails
func (m IPhoneDetailsModel) ToDomain() catalog.Details {
	return catalog.IPhoneDetails{
		Color:   catalog.IPhoneColor(m.Color),
		Storage: catalog.IPhoneStorage(m.Storage),
	}
}

// ChargerDetailsModel holds the attributes of a charger product
type ChargerDetailsModel struct {
	ProductID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Wattage        string    `gorm:"type:varchar(10);not null"`
	IsFastCharging bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ChargerDetailsModel) TableName() string { return "charger_details" }

// ProductKey returns the owning product ID
func (m ChargerDetailsModel) ProductKey() uuid.UUID { return m.ProductID }

// ToDomain converts the row to ChargerDetails
func (m ChargerDetailsModel) ToDomain() catalog.Details {
	return catalog.ChargerDetails{
		Wattage:        catalog.ChargerWattage(m.Wattage),
		IsFastCharging: m.IsFastCharging,
	}
}

// CableDetailsModel holds the attributes of a cable product
type CableDetailsModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type      string    `gorm:"type:varchar(30);not null"`
	Length    string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CableDetailsModel) TableName() string { return "cable_details" }

// ProductKey returns the owning product ID
func (m CableDetailsModel) ProductKey() uuid.UUID { return m.ProductID }

// ToDomain converts the row to CableDetails
func (m CableDetailsModel) ToDomain() catalog.Details {
	return catalog.CableDetails{
		Type:   catalog.CableType(m.Type),
		Length: m.Length,
	}
}

// AirPodDetailsModel marks a product as an AirPod; it has no attributes
type AirPodDetailsModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (AirPodDetailsModel) TableName() string { return "airpod_details" }

// ProductKey returns the owning product ID
func (m AirPodDetailsModel) ProductKey() uuid.UUID { return m.ProductID }

// ToDomain converts the row to AirPodDetails
func (AirPodDetailsModel) ToDomain() catalog.Details {
	return catalog.AirPodDetails{}
}

// DetailsModelFromDomain builds the detail row for the given product.
// It returns nil for a nil or unknown details value.
func DetailsModelFromDomain(productID uuid.UUID, d catalog.Details) DetailsModel {
	switch v := d.(type) {
	case catalog.IPhoneDetails:
		return &IPhoneDetailsModel{ProductID: productID, Color: string(v.Color), Storage: string(v.Storage)}
	case catalog.ChargerDetails:
		return &ChargerDetailsModel{ProductID: productID, Wattage: string(v.Wattage), IsFastCharging: v.IsFastCharging}
	case catalog.CableDetails:
		return &CableDetailsModel{ProductID: productID, Type: string(v.Type), Length: v.Length}
	case catalog.AirPodDetails:
		return &AirPodDetailsModel{ProductID: productID}
	default:
		return nil
	}
}

// NewDetailsModel returns an empty detail model for a category, or nil for an unknown one
func NewDetailsModel(c catalog.Category) DetailsModel {
	switch c {
	case catalog.CategoryIPhone:
		return &IPhoneDetailsModel{}
	case catalog.CategoryCharger:
		return &ChargerDetailsModel{}
	case catalog.CategoryCable:
		return &CableDetailsModel{}
	case catalog.CategoryAirPod:
		return &AirPodDetailsModel{}
	default:
		return nil
	}
}
