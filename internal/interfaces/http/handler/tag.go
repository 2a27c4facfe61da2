package handler

import (
	"context"
	"net/http"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TagService is the tag use case consumed by TagHandler
type TagService interface {
	Create(ctx context.Context, req catalogapp.TagRequest) (*catalogapp.TagResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.TagRequest) (*catalogapp.TagResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]catalogapp.TagResponse, error)
}

// TagHandler handles tag endpoints
type TagHandler struct {
	BaseHandler
	tagService TagService
	metrics    *metrics.Metrics
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService TagService, m *metrics.Metrics) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		metrics:    m,
	}
}

// List returns all tags, optionally filtered by name
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// Create adds a tag with a slug derived from its name
func (h *TagHandler) Create(c *gin.Context) {
	var req catalogapp.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req)
	h.metrics.ObserveCatalog("tag", "create", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusCreated, "Tag created", tag)
}

// Update renames a tag
func (h *TagHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	var req catalogapp.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	tag, err := h.tagService.Update(c.Request.Context(), id, req)
	h.metrics.ObserveCatalog("tag", "update", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Tag updated", tag)
}

// Delete removes a tag and detaches it from every product
func (h *TagHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	err = h.tagService.Delete(c.Request.Context(), id)
	h.metrics.ObserveCatalog("tag", "delete", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Tag deleted", nil)
}
