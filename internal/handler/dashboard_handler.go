package handler

import (
	"github.com/gin-gonic/gin"

	"billdesk/internal/service"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /api/v1/dashboard/stats
// @Summary Dashboard statistics
// @Description Totals, monthly paid/unpaid sums for the last six months and the top suppliers and parties by billed amount.
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=domain.DashboardStats} "Aggregate statistics"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security SessionCookie
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, "Dashboard statistics", stats)
}
