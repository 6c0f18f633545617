package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"name":       true,
	"email":      true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"position":   true,
	"department": true,
	"salary":     true,
	"hire_date":  true,
	"status":     true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"category":   true,
	"status":     true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"total":      true,
	"status":     true,
}

// orderClause builds a safe ORDER BY clause from a filter
func orderClause(orderBy, orderDir string, allowed map[string]bool) string {
	return ValidateSortField(orderBy, allowed, "created_at") + " " + ValidateSortOrder(orderDir)
}
