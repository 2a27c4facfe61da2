package handler

import (
	"context"
	"net/http"

	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostService is the blog use case consumed by PostHandler
type PostService interface {
	Create(ctx context.Context, req contentapp.PostRequest) (*contentapp.PostResponse, error)
	Update(ctx context.Context, id uuid.UUID, req contentapp.PostRequest) (*contentapp.PostResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error)
	GetBySlug(ctx context.Context, slug string) (*contentapp.PostResponse, error)
	List(ctx context.Context, filter contentapp.PostListFilter) (*shared.Paginated[contentapp.PostListItem], error)
}

// PostHandler handles blog post endpoints
type PostHandler struct {
	BaseHandler
	postService PostService
	metrics     *metrics.Metrics
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService PostService, m *metrics.Metrics) *PostHandler {
	return &PostHandler{
		postService: postService,
		metrics:     m,
	}
}

// List godoc
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Param        search    query string false "Title search"
// @Param        page      query int    false "Page"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]contentapp.PostListItem}
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	var filter contentapp.PostListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidation(c, err)
		return
	}

	page, err := h.postService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetBySlug returns a published post
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// GetByID returns a post for the admin editor
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	post, err := h.postService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Create godoc
// @Summary      Create a post
// @Description  Content is a JSON array of {type, data} blocks.
// @Tags         admin-posts
// @Accept       json
// @Produce      json
// @Param        request body contentapp.PostRequest true "Post"
// @Success      201 {object} dto.ActionResult{data=contentapp.PostResponse}
// @Failure      400 {object} dto.ActionResult
// @Failure      409 {object} dto.ActionResult
// @Router       /admin/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req contentapp.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), req)
	h.metrics.ObserveCatalog("post", "create", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusCreated, "Post created", post)
}

// Update replaces a post
func (h *PostHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	var req contentapp.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, req)
	h.metrics.ObserveCatalog("post", "update", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Post updated", post)
}

// Delete removes a post
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	err = h.postService.Delete(c.Request.Context(), id)
	h.metrics.ObserveCatalog("post", "delete", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Post deleted", nil)
}
