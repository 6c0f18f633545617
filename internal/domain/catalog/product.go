package catalog

import (
	"time"

	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents whether a product can be sold
type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusUnavailable ProductStatus = "unavailable"
)

// IsValid checks if the status is valid
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusAvailable || s == ProductStatusUnavailable
}

// Product is a sellable item. Its category is carried by its details value,
// so a product can never hold details of a category other than its own.
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      ProductStatus
	details     Details
}

// ProductInfo holds the mutable base fields of a product
type ProductInfo struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      ProductStatus
}

func (i ProductInfo) validate() error {
	if i.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(i.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if i.Stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if !i.Status.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid product status %q", i.Status)
	}
	return nil
}

func validateDetails(d Details) error {
	if d == nil {
		return shared.NewDomainError("INVALID_DETAILS", "Product details are required")
	}
	return d.Validate()
}

// NewProduct creates a product of the category implied by details
func NewProduct(info ProductInfo, details Details) (*Product, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	p := &Product{BaseEntity: shared.NewBaseEntity(), details: details}
	p.apply(info)
	return p, nil
}

// RestoreProduct rebuilds a stored product without re-running creation rules
func RestoreProduct(base shared.BaseEntity, info ProductInfo, details Details) *Product {
	p := &Product{BaseEntity: base, details: details}
	p.apply(info)
	return p
}

func (p *Product) apply(info ProductInfo) {
	p.Name = info.Name
	p.Description = info.Description
	p.Price = info.Price
	p.Stock = info.Stock
	p.Status = info.Status
}

// Category returns the product's category
func (p *Product) Category() Category {
	if p.details == nil {
		return ""
	}
	return p.details.Category()
}

// Details returns the category-specific attributes
func (p *Product) Details() Details {
	return p.details
}

// Info returns the mutable base fields
func (p *Product) Info() ProductInfo {
	return ProductInfo{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      p.Status,
	}
}

// Update replaces the base fields and the details. The details must belong
// to the product's existing category.
func (p *Product) Update(info ProductInfo, details Details) error {
	if err := info.validate(); err != nil {
		return err
	}
	if err := validateDetails(details); err != nil {
		return err
	}
	if details.Category() != p.Category() {
		return shared.NewDomainErrorf("CATEGORY_IMMUTABLE",
			"Product category is %s and cannot change to %s", p.Category(), details.Category())
	}
	p.apply(info)
	p.details = details
	p.UpdatedAt = time.Now()
	return nil
}

// IsOrderable reports whether the product can be added to a new order
func (p *Product) IsOrderable() bool {
	return p.Status == ProductStatusAvailable && p.Stock > 0
}

// HasStock reports whether at least qty units are in stock
func (p *Product) HasStock(qty int) bool {
	return p.Stock >= qty
}
