package partner

import (
	"regexp"

	"github.com/retaildash/backend/internal/domain/shared"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

func validateName(kind, name string) error {
	if name == "" {
		return shared.NewDomainErrorf("INVALID_NAME", "%s name cannot be empty", kind)
	}
	if len(name) > 200 {
		return shared.NewDomainErrorf("INVALID_NAME", "%s name cannot exceed 200 characters", kind)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// validatePhone accepts an empty value; phone numbers are optional contact data
func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateAddress(address string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	return nil
}

// Contact holds the contact fields shared by customers and employees
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (c Contact) validate(kind string) error {
	if err := validateName(kind, c.Name); err != nil {
		return err
	}
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	if err := validatePhone(c.Phone); err != nil {
		return err
	}
	return validateAddress(c.Address)
}
