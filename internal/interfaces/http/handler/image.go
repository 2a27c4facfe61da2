package handler

import (
	"context"
	"net/http"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const imageFileField = "file"

// ImageUploadService stores a single image
type ImageUploadService interface {
	Upload(ctx context.Context, f catalogapp.ImageFile) (*catalogapp.UploadImageResponse, error)
}

// ImageHandler handles standalone image uploads
type ImageHandler struct {
	BaseHandler
	imageService ImageUploadService
	metrics      *metrics.Metrics
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService ImageUploadService, m *metrics.Metrics) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		metrics:      m,
	}
}

// Upload stores one image (max 5MB; jpg, jpeg, png, webp or gif) and returns its URL
func (h *ImageHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile(imageFileField)
	if err != nil {
		h.ActionFailed(c, shared.NewDomainError(dto.ErrCodeBadRequest, "An image file is required"))
		return
	}

	f, err := readImageFile(fh)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	resp, err := h.imageService.Upload(c.Request.Context(), f)
	h.metrics.ObserveUpload(err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	h.Action(c, http.StatusCreated, "Image uploaded", resp)
}
