package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxImageSize is the largest accepted image upload
const MaxImageSize = 5 << 20

// allowedImageExtensions are the image types the storefront renders
var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageUploader stores images on an external host and returns public URLs.
// Implemented by the infrastructure storage package.
type ImageUploader interface {
	Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// ImageFile is an uploaded image waiting to be stored
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ValidateImage checks the size and extension of an image
func ValidateImage(f ImageFile) error {
	if len(f.Data) == 0 {
		return shared.NewDomainError("INVALID_IMAGE", fmt.Sprintf("Image %q is empty", f.Filename))
	}
	if len(f.Data) > MaxImageSize {
		return shared.NewDomainError("IMAGE_TOO_LARGE", fmt.Sprintf("Image %q exceeds the 5MB limit", f.Filename))
	}
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return shared.NewDomainError("INVALID_IMAGE_TYPE", "Only jpg, jpeg, png, webp and gif images are allowed")
	}
	return nil
}

// contentTypeOf prefers the declared content type and falls back to the extension
func contentTypeOf(f ImageFile) string {
	if f.ContentType != "" && f.ContentType != "application/octet-stream" {
		return f.ContentType
	}
	return allowedImageExtensions[strings.ToLower(filepath.Ext(f.Filename))]
}

// ImageService validates and uploads images
type ImageService struct {
	uploader ImageUploader
	folder   string
	logger   *zap.Logger
}

// NewImageService creates a new ImageService storing images under folder
func NewImageService(uploader ImageUploader, folder string, logger *zap.Logger) *ImageService {
	return &ImageService{
		uploader: uploader,
		folder:   folder,
		logger:   logger,
	}
}

// Upload validates and stores a single image
func (s *ImageService) Upload(ctx context.Context, f ImageFile) (*UploadImageResponse, error) {
	if err := ValidateImage(f); err != nil {
		return nil, err
	}
	url, err := s.uploader.Upload(ctx, s.folder, f.Filename, f.Data, contentTypeOf(f))
	if err != nil {
		s.logger.Error("Image upload failed", zap.String("filename", f.Filename), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to upload image")
	}
	return &UploadImageResponse{URL: url}, nil
}

// UploadAll validates every file first, then uploads them concurrently.
// URLs are returned in input order. When any upload fails the images that did
// succeed are deleted again and the error is returned.
func (s *ImageService) UploadAll(ctx context.Context, files []ImageFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, f := range files {
		if err := ValidateImage(f); err != nil {
			return nil, err
		}
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		g.Go(func() error {
			url, err := s.uploader.Upload(gctx, s.folder, f.Filename, f.Data, contentTypeOf(f))
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Concurrent image upload failed", zap.Int("files", len(files)), zap.Error(err))
		s.DeleteAll(context.WithoutCancel(ctx), urls)
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to upload images")
	}
	return urls, nil
}

// DeleteAll removes images from the host, logging failures
func (s *ImageService) DeleteAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, url); err != nil {
			s.logger.Warn("Failed to delete image", zap.String("url", url), zap.Error(err))
		}
	}
}
