package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Product DTOs
// =============================================================================

// ProductDetailsDTO carries the category-specific attributes. Only the fields
// of the product's category are used.
type ProductDetailsDTO struct {
	Color          string `json:"color,omitempty"`
	Storage        string `json:"storage,omitempty"`
	Wattage        string `json:"wattage,omitempty"`
	IsFastCharging *bool  `json:"is_fast_charging,omitempty"`
	CableType      string `json:"cable_type,omitempty"`
	Length         string `json:"length,omitempty"`
}

// ToDomain builds the details value of the given category
func (d ProductDetailsDTO) ToDomain(category catalog.Category) (catalog.Details, error) {
	switch category {
	case catalog.CategoryIPhone:
		return catalog.IPhoneDetails{
			Color:   catalog.IPhoneColor(d.Color),
			Storage: catalog.IPhoneStorage(d.Storage),
		}, nil
	case catalog.CategoryCharger:
		fast := false
		if d.IsFastCharging != nil {
			fast = *d.IsFastCharging
		}
		return catalog.ChargerDetails{
			Wattage:        catalog.ChargerWattage(d.Wattage),
			IsFastCharging: fast,
		}, nil
	case catalog.CategoryCable:
		return catalog.CableDetails{
			Type:   catalog.CableType(d.CableType),
			Length: d.Length,
		}, nil
	case catalog.CategoryAirPod:
		return catalog.AirPodDetails{}, nil
	}
	return nil, shared.NewDomainErrorf("INVALID_CATEGORY", "Unknown product category %q", category)
}

// ToProductDetailsDTO converts a details value for responses
func ToProductDetailsDTO(details catalog.Details) ProductDetailsDTO {
	switch d := details.(type) {
	case catalog.IPhoneDetails:
		return ProductDetailsDTO{Color: string(d.Color), Storage: string(d.Storage)}
	case catalog.ChargerDetails:
		fast := d.IsFastCharging
		return ProductDetailsDTO{Wattage: string(d.Wattage), IsFastCharging: &fast}
	case catalog.CableDetails:
		return ProductDetailsDTO{CableType: string(d.Type), Length: d.Length}
	}
	return ProductDetailsDTO{}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=200"`
	Description string            `json:"description" binding:"max=2000"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock" binding:"min=0"`
	Status      string            `json:"status" binding:"omitempty,oneof=available unavailable"`
	Category    string            `json:"category" binding:"required,oneof=iPhone Charger Cable AirPod"`
	Details     ProductDetailsDTO `json:"details"`
}

// UpdateProductRequest represents a request to update a product.
// The category cannot change; when sent it must match the stored one.
type UpdateProductRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=200"`
	Description string            `json:"description" binding:"max=2000"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock" binding:"min=0"`
	Status      string            `json:"status" binding:"omitempty,oneof=available unavailable"`
	Category    string            `json:"category" binding:"omitempty,oneof=iPhone Charger Cable AirPod"`
	Details     ProductDetailsDTO `json:"details"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=iPhone Charger Cable AirPod"`
	Status   string `form:"status" binding:"omitempty,oneof=available unavailable"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	Status      string            `json:"status"`
	Category    string            `json:"category"`
	Details     ProductDetailsDTO `json:"details"`
	Orderable   bool              `json:"orderable"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      string(p.Status),
		Category:    string(p.Category()),
		Details:     ToProductDetailsDTO(p.Details()),
		Orderable:   p.IsOrderable(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

func productStatusOrDefault(s string) catalog.ProductStatus {
	if s == "" {
		return catalog.ProductStatusAvailable
	}
	return catalog.ProductStatus(s)
}
