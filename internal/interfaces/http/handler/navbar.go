package handler

import (
	"context"
	"net/http"

	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NavbarService is the menu use case consumed by NavbarHandler
type NavbarService interface {
	Create(ctx context.Context, req contentapp.NavbarLinkRequest) (*contentapp.NavbarLinkResponse, error)
	Update(ctx context.Context, id uuid.UUID, req contentapp.NavbarLinkRequest) (*contentapp.NavbarLinkResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, direction string) error
	List(ctx context.Context) ([]contentapp.NavbarLinkResponse, error)
}

// NavbarHandler handles navbar link endpoints
type NavbarHandler struct {
	BaseHandler
	navbarService NavbarService
	metrics       *metrics.Metrics
}

// NewNavbarHandler creates a new NavbarHandler
func NewNavbarHandler(navbarService NavbarService, m *metrics.Metrics) *NavbarHandler {
	return &NavbarHandler{
		navbarService: navbarService,
		metrics:       m,
	}
}

// List returns the menu in display order
func (h *NavbarHandler) List(c *gin.Context) {
	links, err := h.navbarService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, links)
}

// Create appends a menu entry
func (h *NavbarHandler) Create(c *gin.Context) {
	var req contentapp.NavbarLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	link, err := h.navbarService.Create(c.Request.Context(), req)
	h.metrics.ObserveCatalog("navbar", "create", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusCreated, "Menu link created", link)
}

// Update edits the label and URL of a menu entry
func (h *NavbarHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	var req contentapp.NavbarLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	link, err := h.navbarService.Update(c.Request.Context(), id, req)
	h.metrics.ObserveCatalog("navbar", "update", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Menu link updated", link)
}

// Delete removes a menu entry
func (h *NavbarHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	err = h.navbarService.Delete(c.Request.Context(), id)
	h.metrics.ObserveCatalog("navbar", "delete", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Menu link deleted", nil)
}

// Move godoc
// @Summary      Move a menu link one position
// @Description  Swaps the link with its neighbour. Fails with NAVBAR_BOUNDARY at either end.
// @Tags         admin-navbar
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Link ID"
// @Param        request body contentapp.MoveNavbarLinkRequest true "Direction"
// @Success      200 {object} dto.ActionResult
// @Failure      422 {object} dto.ActionResult
// @Router       /admin/navbar/{id}/move [post]
func (h *NavbarHandler) Move(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	var req contentapp.MoveNavbarLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	err = h.navbarService.Move(c.Request.Context(), id, req.Direction)
	h.metrics.ObserveCatalog("navbar", "move", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Menu link moved", nil)
}
