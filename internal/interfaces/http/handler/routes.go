package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/interfaces/http/router"
)

// Handlers groups every API handler
type Handlers struct {
	Session  *SessionHandler
	Customer *CustomerHandler
	Employee *EmployeeHandler
	Product  *ProductHandler
	Order    *OrderHandler
	Admin    *AdminHandler
	System   *SystemHandler
}

// RouteOptions holds the middleware applied to route groups
type RouteOptions struct {
	// Protected runs in front of every route except the password gate and system routes
	Protected []gin.HandlerFunc
	// Login runs in front of POST /password/login only
	Login []gin.HandlerFunc
}

// DomainGroups builds the API route groups
func (h *Handlers) DomainGroups(opts RouteOptions) []*router.DomainGroup {
	password := router.NewDomainGroup("session", "/password")
	password.POST("/login", append(append([]gin.HandlerFunc{}, opts.Login...), h.Session.Login)...)
	password.POST("/logout", h.Session.Logout)
	password.GET("/status", h.Session.Status)

	system := router.NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	dashboard := router.NewDomainGroup("dashboard", "/dashboard").Use(opts.Protected...)
	dashboard.GET("", h.Admin.Dashboard)

	customers := router.NewDomainGroup("customers", "/customers").Use(opts.Protected...)
	customers.GET("", h.Customer.List)
	customers.POST("", h.Customer.Create)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", h.Customer.Delete)

	employees := router.NewDomainGroup("employees", "/employees").Use(opts.Protected...)
	employees.GET("", h.Employee.List)
	employees.POST("", h.Employee.Create)
	employees.GET("/eligible-processors", h.Employee.EligibleProcessors)
	employees.GET("/:id", h.Employee.GetByID)
	employees.PUT("/:id", h.Employee.Update)
	employees.DELETE("/:id", h.Employee.Delete)
	employees.PATCH("/:id/status", h.Employee.ChangeStatus)
	employees.POST("/:id/profile-image", h.Employee.RequestProfileImageUpload)
	employees.POST("/:id/profile-image/confirm", h.Employee.ConfirmProfileImage)
	employees.GET("/:id/profile-image", h.Employee.ProfileImage)

	products := router.NewDomainGroup("products", "/products").Use(opts.Protected...)
	products.GET("", h.Product.List)
	products.POST("", h.Product.Create)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)

	orders := router.NewDomainGroup("orders", "/orders").Use(opts.Protected...)
	orders.GET("", h.Order.List)
	orders.POST("", h.Order.Create)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id", h.Order.Update)
	orders.DELETE("/:id", h.Order.Delete)

	adminGroup := router.NewDomainGroup("admin", "/admin").Use(opts.Protected...)
	adminGroup.DELETE("/data", h.Admin.PurgeAll)

	return []*router.DomainGroup{password, system, dashboard, customers, employees, products, orders, adminGroup}
}
