package partner

import (
	"time"

	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Department is the organisational unit an employee belongs to
type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentMarketing   Department = "Marketing"
	DepartmentSales       Department = "Sales"
	DepartmentSupport     Department = "Support"
	DepartmentHR          Department = "HR"
)

// AllDepartments lists every department in display order
func AllDepartments() []Department {
	return []Department{
		DepartmentEngineering,
		DepartmentMarketing,
		DepartmentSales,
		DepartmentSupport,
		DepartmentHR,
	}
}

// IsValid checks if the department is one of the known values
func (d Department) IsValid() bool {
	for _, known := range AllDepartments() {
		if d == known {
			return true
		}
	}
	return false
}

var departmentFolder = cases.Fold()

// ParseDepartment resolves a department name case-insensitively ("sales", "hr")
func ParseDepartment(s string) (Department, error) {
	folded := departmentFolder.String(s)
	for _, known := range AllDepartments() {
		if departmentFolder.String(string(known)) == folded {
			return known, nil
		}
	}
	return "", shared.NewDomainErrorf("INVALID_DEPARTMENT", "Unknown department %q", s)
}

// EmployeeStatus represents whether an employee is currently working
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// IsValid checks if the status is valid
func (s EmployeeStatus) IsValid() bool {
	return s == EmployeeStatusActive || s == EmployeeStatusInactive
}

// Toggled returns the opposite status
func (s EmployeeStatus) Toggled() EmployeeStatus {
	if s == EmployeeStatusActive {
		return EmployeeStatusInactive
	}
	return EmployeeStatusActive
}

// Employee is a staff member; active Sales employees may process orders
type Employee struct {
	shared.BaseEntity
	Name            string
	Email           string
	Phone           string
	Address         string
	Position        string
	Department      Department
	Salary          decimal.Decimal
	HireDate        time.Time
	Status          EmployeeStatus
	ProfileImageURL string
}

// EmployeeJob holds the employment fields of an employee
type EmployeeJob struct {
	Position   string
	Department Department
	Salary     decimal.Decimal
	HireDate   time.Time
}

func (j EmployeeJob) validate() error {
	if j.Position == "" {
		return shared.NewDomainError("INVALID_POSITION", "Position cannot be empty")
	}
	if len(j.Position) > 100 {
		return shared.NewDomainError("INVALID_POSITION", "Position cannot exceed 100 characters")
	}
	if !j.Department.IsValid() {
		return shared.NewDomainErrorf("INVALID_DEPARTMENT", "Unknown department %q", j.Department)
	}
	if j.Salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}
	if j.HireDate.IsZero() {
		return shared.NewDomainError("INVALID_HIRE_DATE", "Hire date is required")
	}
	return nil
}

// NewEmployee creates a new active employee
func NewEmployee(contact Contact, job EmployeeJob) (*Employee, error) {
	if err := contact.validate("Employee"); err != nil {
		return nil, err
	}
	if err := job.validate(); err != nil {
		return nil, err
	}
	return &Employee{
		BaseEntity: shared.NewBaseEntity(),
		Name:       contact.Name,
		Email:      contact.Email,
		Phone:      contact.Phone,
		Address:    contact.Address,
		Position:   job.Position,
		Department: job.Department,
		Salary:     job.Salary,
		HireDate:   job.HireDate,
		Status:     EmployeeStatusActive,
	}, nil
}

// Update replaces the employee's contact and employment fields.
// Status is not changed here; it only moves through SetStatus.
func (e *Employee) Update(contact Contact, job EmployeeJob) error {
	if err := contact.validate("Employee"); err != nil {
		return err
	}
	if err := job.validate(); err != nil {
		return err
	}
	e.Name = contact.Name
	e.Email = contact.Email
	e.Phone = contact.Phone
	e.Address = contact.Address
	e.Position = job.Position
	e.Department = job.Department
	e.Salary = job.Salary
	e.HireDate = job.HireDate
	e.Touch()
	return nil
}

// SetStatus moves the employee to the given status
func (e *Employee) SetStatus(status EmployeeStatus) error {
	if !status.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid employee status %q", status)
	}
	e.Status = status
	e.Touch()
	return nil
}

// ToggleStatus flips between active and inactive
func (e *Employee) ToggleStatus() {
	e.Status = e.Status.Toggled()
	e.Touch()
}

// SetProfileImage records the location of the employee's profile image
func (e *Employee) SetProfileImage(url string) {
	e.ProfileImageURL = url
	e.Touch()
}

// IsActive reports whether the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// CanProcessOrders reports whether orders may be attributed to this employee
func (e *Employee) CanProcessOrders() bool {
	return e.Department == DepartmentSales && e.IsActive()
}
