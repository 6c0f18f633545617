package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/retaildash/backend/internal/application/partner"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List godoc
// @ID          listCustomers
// @Summary     List customers
// @Description Returns a page of customers matching the search text.
// @Tags        customers
// @Produce     json
// @Param       search query string false "Name, email or phone contains"
// @Param       page query int false "Page number" minimum(1)
// @Param       page_size query int false "Page size" minimum(1) maximum(100)
// @Param       order_by query string false "Sort field"
// @Param       order_dir query string false "Sort direction" Enums(asc, desc)
// @Success     200 {object} dto.Response{data=[]partnerapp.CustomerResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID          getCustomerById
// @Summary     Get customer by ID
// @Description Returns a customer by ID.
// @Tags        customers
// @Produce     json
// @Param       id path int true "Customer ID"
// @Success     200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.int64Param(c, "id", "customer")
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create godoc
// @ID          createCustomer
// @Summary     Create a new customer
// @Description Creates a customer. The email must be unique.
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       request body partnerapp.CustomerRequest true "Customer creation request"
// @Success     201 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update godoc
// @ID          updateCustomer
// @Summary     Update a customer
// @Description Replaces the contact fields of a customer.
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       id path int true "Customer ID"
// @Param       request body partnerapp.CustomerRequest true "Customer update request"
// @Success     200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.int64Param(c, "id", "customer")
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @ID          deleteCustomer
// @Summary     Delete a customer
// @Description Deletes a customer that has no orders.
// @Tags        customers
// @Produce     json
// @Param       id path int true "Customer ID"
// @Success     204
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.int64Param(c, "id", "customer")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
