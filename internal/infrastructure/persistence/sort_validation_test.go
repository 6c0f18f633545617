package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE orders;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"valid field returns field", "price", "price"},
		{"invalid field returns default", "cost", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE products;--", "created_at"},
		{"case sensitive", "PRICE", "created_at"},
		{"whitespace around valid field returns field", "  stock  ", "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "created_at"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"customers": CustomerSortFields,
		"employees": EmployeeSortFields,
		"products":  ProductSortFields,
		"orders":    OrderSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name+" contains id and created_at", func(t *testing.T) {
			assert.True(t, whitelist["id"])
			assert.True(t, whitelist["created_at"])
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "name ASC", orderClause("name", "asc", CustomerSortFields))
	assert.Equal(t, "created_at DESC", orderClause("name' OR 1=1", "sideways", CustomerSortFields))
}
