package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/application/admin"
)

// AdminHandler serves the dashboard summary and the bulk delete
type AdminHandler struct {
	BaseHandler
	dashboard *admin.DashboardService
	purge     *admin.PurgeService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(dashboard *admin.DashboardService, purge *admin.PurgeService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, purge: purge}
}

// Dashboard godoc
// @ID          getDashboard
// @Summary     Get the dashboard summary
// @Description Returns record counts, orders by status and revenue.
// @Tags        admin
// @Produce     json
// @Success     200 {object} dto.Response{data=admin.DashboardSummaryResponse}
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// PurgeAll godoc
// @ID          purgeAll
// @Summary     Delete all business data
// @Description Deletes every business record once the confirmation phrase matches.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body admin.PurgeRequest true "Confirmation phrase"
// @Success     200 {object} dto.Response{data=admin.PurgeResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Security    SessionCookie
// @Router      /admin/data [delete]
func (h *AdminHandler) PurgeAll(c *gin.Context) {
	var req admin.PurgeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.purge.Purge(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
