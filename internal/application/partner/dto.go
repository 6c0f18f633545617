package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CustomerRequest represents a request to create or update a customer
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

func (r CustomerRequest) contact() partner.Contact {
	return partner.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Employee DTOs
// =============================================================================

// EmployeeRequest represents a request to create or update an employee
type EmployeeRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Email      string          `json:"email" binding:"required,email,max=200"`
	Phone      string          `json:"phone" binding:"max=50"`
	Address    string          `json:"address" binding:"max=500"`
	Position   string          `json:"position" binding:"required,min=1,max=100"`
	Department string          `json:"department" binding:"required"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   time.Time       `json:"hire_date" binding:"required"`
}

func (r EmployeeRequest) contact() partner.Contact {
	return partner.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

func (r EmployeeRequest) job() (partner.EmployeeJob, error) {
	dept, err := partner.ParseDepartment(r.Department)
	if err != nil {
		return partner.EmployeeJob{}, err
	}
	return partner.EmployeeJob{
		Position:   r.Position,
		Department: dept,
		Salary:     r.Salary,
		HireDate:   r.HireDate,
	}, nil
}

// EmployeeListFilter represents filter options for the employee list
type EmployeeListFilter struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	Position         string          `json:"position"`
	Department       string          `json:"department"`
	Salary           decimal.Decimal `json:"salary"`
	HireDate         time.Time       `json:"hire_date"`
	Status           string          `json:"status"`
	CanProcessOrders bool            `json:"can_process_orders"`
	HasProfileImage  bool            `json:"has_profile_image"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToEmployeeResponse converts a domain Employee to EmployeeResponse
func ToEmployeeResponse(e *partner.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		Name:             e.Name,
		Email:            e.Email,
		Phone:            e.Phone,
		Address:          e.Address,
		Position:         e.Position,
		Department:       string(e.Department),
		Salary:           e.Salary,
		HireDate:         e.HireDate,
		Status:           string(e.Status),
		CanProcessOrders: e.CanProcessOrders(),
		HasProfileImage:  e.ProfileImageURL != "",
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ToEmployeeResponses converts a slice of domain Employees
func ToEmployeeResponses(employees []partner.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}
	return responses
}

// ProfileImageUploadRequest asks for an upload URL for a new profile image
type ProfileImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ProfileImageUploadResponse carries the presigned upload URL
type ProfileImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ConfirmProfileImageRequest confirms a finished upload
type ConfirmProfileImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// ProfileImageResponse carries a presigned download URL for the image
type ProfileImageResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
