package handler

import (
	"context"
	"net/http"

	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
)

// SiteSettingService is the settings use case consumed by SiteSettingHandler
type SiteSettingService interface {
	Get(ctx context.Context) (*contentapp.SiteSettingResponse, error)
	Update(ctx context.Context, req contentapp.SiteSettingRequest) (*contentapp.SiteSettingResponse, error)
}

// SiteSettingHandler handles the site settings singleton
type SiteSettingHandler struct {
	BaseHandler
	settingService SiteSettingService
	metrics        *metrics.Metrics
}

// NewSiteSettingHandler creates a new SiteSettingHandler
func NewSiteSettingHandler(settingService SiteSettingService, m *metrics.Metrics) *SiteSettingHandler {
	return &SiteSettingHandler{
		settingService: settingService,
		metrics:        m,
	}
}

// Get returns the settings, or the defaults when none were saved yet
func (h *SiteSettingHandler) Get(c *gin.Context) {
	setting, err := h.settingService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// Update replaces the settings
func (h *SiteSettingHandler) Update(c *gin.Context) {
	var req contentapp.SiteSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	setting, err := h.settingService.Update(c.Request.Context(), req)
	h.metrics.ObserveCatalog("settings", "update", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Settings saved", setting)
}
