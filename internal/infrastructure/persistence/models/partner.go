package models

import (
	"time"

	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
// The ID is generated by the database.
type CustomerModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Email     string    `gorm:"type:varchar(200);not null;index"`
	Phone     string    `gorm:"type:varchar(50)"`
	Address   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.ID = c.ID
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.CreatedAt = c.CreatedAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// EmployeeModel is the persistence model for the Employee domain entity
type EmployeeModel struct {
	BaseModel
	Name            string          `gorm:"type:varchar(200);not null"`
	Email           string          `gorm:"type:varchar(200);not null;index"`
	Phone           string          `gorm:"type:varchar(50)"`
	Address         string          `gorm:"type:text"`
	Position        string          `gorm:"type:varchar(100);not null"`
	Department      string          `gorm:"type:varchar(20);not null;index"`
	Salary          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HireDate        time.Time       `gorm:"type:date;not null"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	ProfileImageURL string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee entity
func (m *EmployeeModel) ToDomain() *partner.Employee {
	return &partner.Employee{
		BaseEntity:      m.BaseModel.ToDomain(),
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Address:         m.Address,
		Position:        m.Position,
		Department:      partner.Department(m.Department),
		Salary:          m.Salary,
		HireDate:        m.HireDate,
		Status:          partner.EmployeeStatus(m.Status),
		ProfileImageURL: m.ProfileImageURL,
	}
}

// FromDomain populates the persistence model from a domain Employee entity
func (m *EmployeeModel) FromDomain(e *partner.Employee) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
	m.Email = e.Email
	m.Phone = e.Phone
	m.Address = e.Address
	m.Position = e.Position
	m.Department = string(e.Department)
	m.Salary = e.Salary
	m.HireDate = e.HireDate
	m.Status = string(e.Status)
	m.ProfileImageURL = e.ProfileImageURL
}

// EmployeeModelFromDomain creates a new persistence model from a domain Employee entity
func EmployeeModelFromDomain(e *partner.Employee) *EmployeeModel {
	m := &EmployeeModel{}
	m.FromDomain(e)
	return m
}
