package handler

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/application/dashboard"
	"github.com/gin-gonic/gin"
)

// DashboardService computes the admin dashboard counts
type DashboardService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

// DashboardHandler serves the admin dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the product, link, category, tag and post counts
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
