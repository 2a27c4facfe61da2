package handler

import (
	"context"
	"net/http"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryService is the category use case consumed by CategoryHandler
type CategoryService interface {
	Create(ctx context.Context, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	List(ctx context.Context, search string) ([]catalogapp.CategoryResponse, error)
}

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryService
	metrics         *metrics.Metrics
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryService, m *metrics.Metrics) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		metrics:         m,
	}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        search query string false "Name search"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetByID returns one category
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create godoc
// @Summary      Create a category
// @Description  The slug is derived from the name unless given.
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CategoryRequest true "Category"
// @Success      201 {object} dto.ActionResult{data=catalogapp.CategoryResponse}
// @Failure      409 {object} dto.ActionResult
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	h.metrics.ObserveCatalog("category", "create", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusCreated, "Category created", category)
}

// Update renames a category
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	var req catalogapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	h.metrics.ObserveCatalog("category", "update", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Category updated", category)
}

// Delete removes a category; its products become uncategorized
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	err = h.categoryService.Delete(c.Request.Context(), id)
	h.metrics.ObserveCatalog("category", "delete", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Category deleted", nil)
}
