package partner

import (
	"time"
)

// Customer is a buyer that orders are placed for.
// The numeric ID is assigned by the store on insert and never changes.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// NewCustomer creates a customer that has not been stored yet
func NewCustomer(contact Contact) (*Customer, error) {
	if err := contact.validate("Customer"); err != nil {
		return nil, err
	}
	return &Customer{
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Address:   contact.Address,
		CreatedAt: time.Now(),
	}, nil
}

// UpdateContact replaces the customer's mutable contact fields
func (c *Customer) UpdateContact(contact Contact) error {
	if err := contact.validate("Customer"); err != nil {
		return err
	}
	c.Name = contact.Name
	c.Email = contact.Email
	c.Phone = contact.Phone
	c.Address = contact.Address
	return nil
}

// Contact returns the customer's current contact fields
func (c *Customer) Contact() Contact {
	return Contact{Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}
