package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// Multipart field names of the admin product form
const (
	productPayloadField = "payload"
	productImagesField  = "images"
)

// ProductService is the catalog product use case consumed by ProductHandler
type ProductService interface {
	Create(ctx context.Context, req catalogapp.ProductRequest, files []catalogapp.ImageFile) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.ProductRequest, files []catalogapp.ImageFile) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	GetBySlug(ctx context.Context, slug string) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, filter catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductListItem], error)
}

// ProductHandler handles product endpoints of the storefront and the admin API
type ProductHandler struct {
	BaseHandler
	productService ProductService
	metrics        *metrics.Metrics
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService, m *metrics.Metrics) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		metrics:        m,
	}
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search      query string false "Name or description search"
// @Param        category    query string false "Category slug"
// @Param        tag         query string false "Tag slug"
// @Param        marketplace query string false "Marketplace"
// @Param        sort        query string false "newest, price_asc, price_desc or name"
// @Param        page        query int    false "Page"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductListItem}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidation(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetBySlug godoc
// @Summary      Get a product with its links, category, tags and price history
// @Tags         products
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{slug} [get]
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByID returns a product for the admin edit form
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
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
// @Summary      Create a product
// @Description  Accepts JSON, or multipart with a JSON "payload" field and "images" files.
// @Tags         admin-products
// @Accept       json,mpfd
// @Produce      json
// @Success      201 {object} dto.ActionResult{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.ActionResult
// @Failure      409 {object} dto.ActionResult
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	req, files, err := h.bindProduct(c)
	if err != nil {
		h.ActionInvalid(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req, files)
	h.metrics.ObserveCatalog("product", "create", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusCreated, "Product created", product)
}

// Update replaces a product including all of its links
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	req, files, err := h.bindProduct(c)
	if err != nil {
		h.ActionInvalid(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req, files)
	h.metrics.ObserveCatalog("product", "update", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Product updated", product)
}

// Delete removes a product with its links and price history
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	err = h.productService.Delete(c.Request.Context(), id)
	h.metrics.ObserveCatalog("product", "delete", err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusOK, "Product deleted", nil)
}

// bindProduct reads a product submission from JSON or multipart form data
func (h *ProductHandler) bindProduct(c *gin.Context) (catalogapp.ProductRequest, []catalogapp.ImageFile, error) {
	var req catalogapp.ProductRequest

	if !strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		err := c.ShouldBindJSON(&req)
		return req, nil, err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, nil, err
	}
	if payload := form.Value[productPayloadField]; len(payload) > 0 {
		if err := json.Unmarshal([]byte(payload[0]), &req); err != nil {
			return req, nil, err
		}
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return req, nil, err
	}

	files, err := readImageFiles(form.File[productImagesField])
	if err != nil {
		return req, nil, err
	}
	return req, files, nil
}

// readImageFiles loads uploaded image parts into memory
func readImageFiles(headers []*multipart.FileHeader) ([]catalogapp.ImageFile, error) {
	files := make([]catalogapp.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readImageFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readImageFile(fh *multipart.FileHeader) (catalogapp.ImageFile, error) {
	src, err := fh.Open()
	if err != nil {
		return catalogapp.ImageFile{}, err
	}
	defer src.Close()

	// one byte over the limit is enough for validation to reject it
	data, err := io.ReadAll(io.LimitReader(src, catalogapp.MaxImageSize+1))
	if err != nil {
		return catalogapp.ImageFile{}, err
	}
	return catalogapp.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
