// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no GORM tags; each model converts to and from its
// entity with ToDomain / FromDomain.
//
// Tables:
//   - partner.go: customers, employees
//   - catalog.go: products plus one detail table per product category
//   - trade.go: orders, order_items
package models

// AllModels lists every model in dependency order (referenced tables first).
// It is used for AutoMigrate in tests and for the admin bulk delete, which
// walks the list backwards.
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&EmployeeModel{},
		&ProductModel{},
		&IPhoneDetailsModel{},
		&ChargerDetailsModel{},
		&CableDetailsModel{},
		&AirPodDetailsModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
