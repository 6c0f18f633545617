package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/retaildash/backend/internal/application/catalog"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @ID          listProducts
// @Summary     List products
// @Description Returns a page of products with their category details.
// @Tags        products
// @Produce     json
// @Param       search query string false "Name contains"
// @Param       category query string false "Category" Enums(iPhone, Charger, Cable, AirPod)
// @Param       status query string false "Status" Enums(available, unavailable)
// @Param       page query int false "Page number" minimum(1)
// @Param       page_size query int false "Page size" minimum(1) maximum(100)
// @Param       order_by query string false "Sort field"
// @Param       order_dir query string false "Sort direction" Enums(asc, desc)
// @Success     200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID          getProductById
// @Summary     Get product by ID
// @Description Returns a product with its category details.
// @Tags        products
// @Produce     json
// @Param       id path string true "Product ID" format(uuid)
// @Success     200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @ID          createProduct
// @Summary     Create a new product
// @Description Creates a product and its category details in one step.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       request body catalogapp.CreateProductRequest true "Product creation request"
// @Success     201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @ID          updateProduct
// @Summary     Update a product
// @Description Updates a product and its category details. The category cannot change.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id path string true "Product ID" format(uuid)
// @Param       request body catalogapp.UpdateProductRequest true "Product update request"
// @Success     200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID          deleteProduct
// @Summary     Delete a product
// @Description Deletes a product that is not part of any order.
// @Tags        products
// @Produce     json
// @Param       id path string true "Product ID" format(uuid)
// @Success     204
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Failure     409 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
