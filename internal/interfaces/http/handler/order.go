package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/retaildash/backend/internal/application/trade"
)

// IdempotencyKeyHeader carries the client-chosen key for order creation
const IdempotencyKeyHeader = "Idempotency-Key"

// orderListQuery is bound from the query string and converted to a filter
type orderListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending processing completed cancelled"`
	CustomerID string `form:"customer_id"`
	EmployeeID string `form:"employee_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @ID          listOrders
// @Summary     List orders
// @Description Returns a page of orders without their items.
// @Tags        orders
// @Produce     json
// @Param       status query string false "Status" Enums(pending, processing, completed, cancelled)
// @Param       customer_id query int false "Customer ID"
// @Param       employee_id query string false "Employee ID" format(uuid)
// @Param       page query int false "Page number" minimum(1)
// @Param       page_size query int false "Page size" minimum(1) maximum(100)
// @Param       order_by query string false "Sort field"
// @Param       order_dir query string false "Sort direction" Enums(asc, desc)
// @Success     200 {object} dto.Response{data=[]tradeapp.OrderListItemResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q orderListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	pageDefaults(&q.Page, &q.PageSize)

	filter := tradeapp.OrderListFilter{
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if q.CustomerID != "" {
		id, err := strconv.ParseInt(q.CustomerID, 10, 64)
		if err != nil || id <= 0 {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &id
	}
	if q.EmployeeID != "" {
		id, err := uuid.Parse(q.EmployeeID)
		if err != nil {
			h.BadRequest(c, "Invalid employee ID format")
			return
		}
		filter.EmployeeID = &id
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, q.Page, q.PageSize)
}

// GetByID godoc
// @ID          getOrderById
// @Summary     Get order by ID
// @Description Returns an order with its items.
// @Tags        orders
// @Produce     json
// @Param       id path string true "Order ID" format(uuid)
// @Success     200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create godoc
// @ID          createOrder
// @Summary     Place an order
// @Description Places an order and takes stock for every item. A repeated Idempotency-Key is rejected with 409.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Client-chosen key for double-submit protection"
// @Param       request body tradeapp.CreateOrderRequest true "Order creation request"
// @Success     201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     422 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @ID          updateOrder
// @Summary     Update an order
// @Description Changes the customer, processor, status or items of an order. Stock follows item changes.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       id path string true "Order ID" format(uuid)
// @Param       request body tradeapp.UpdateOrderRequest true "Order update request"
// @Success     200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     422 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "order")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @ID          deleteOrder
// @Summary     Delete an order
// @Description Removes an order and returns its stock. With force=true items whose stock cannot be restored are reported instead of failing.
// @Tags        orders
// @Produce     json
// @Param       id path string true "Order ID" format(uuid)
// @Param       force query bool false "Delete even when stock cannot be restored"
// @Success     200 {object} dto.Response{data=tradeapp.DeleteOrderResult}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "order")
	if !ok {
		return
	}
	force := false
	if raw := c.Query("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "force must be true or false")
			return
		}
		force = parsed
	}

	result, err := h.orderService.Delete(c.Request.Context(), id, force)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
