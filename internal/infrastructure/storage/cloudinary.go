package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Ensure CloudinaryUploader implements ImageUploader
var _ catalogapp.ImageUploader = (*CloudinaryUploader)(nil)

// cloudinaryAPI is the subset of the Cloudinary upload API in use
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryUploader stores images on Cloudinary and returns their secure URL
type CloudinaryUploader struct {
	api    cloudinaryAPI
	folder string
	opts   options
}

// NewCloudinaryUploader creates an uploader from a cloudinary:// URL
func NewCloudinaryUploader(cfg *config.StorageConfig, opts ...Option) (*CloudinaryUploader, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.CloudinaryURL == "" {
		return nil, errors.New("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return newCloudinaryUploader(&cld.Upload, cfg.Folder, opts...), nil
}

func newCloudinaryUploader(client cloudinaryAPI, folder string, opts ...Option) *CloudinaryUploader {
	return &CloudinaryUploader{
		api:    client,
		folder: folder,
		opts:   newOptions(opts),
	}
}

// Upload sends data to Cloudinary under <root folder>/<folder>
func (u *CloudinaryUploader) Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}

	result, err := u.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:       objectName(filename, u.opts.now()),
		Folder:         joinFolder(u.folder, folder),
		ResourceType:   "image",
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}

	u.opts.logger.Debug("Image uploaded",
		zap.String("provider", ProviderCloudinary),
		zap.String("public_id", result.PublicID),
		zap.Int("bytes", result.Bytes),
	)
	return result.SecureURL, nil
}

// Delete removes the image behind a Cloudinary delivery URL
func (u *CloudinaryUploader) Delete(ctx context.Context, imageURL string) error {
	publicID, err := cloudinaryPublicID(imageURL)
	if err != nil {
		return err
	}

	result, err := u.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary delete failed: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary delete failed: %s", result.Error.Message)
	}
	return nil
}

var cloudinaryVersion = regexp.MustCompile(`^v\d+/`)

// cloudinaryPublicID extracts the public ID from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/jagopilih/products/hp-1.jpg
func cloudinaryPublicID(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}
	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found || rest == "" {
		return "", fmt.Errorf("not a cloudinary upload URL: %s", imageURL)
	}
	rest = cloudinaryVersion.ReplaceAllString(rest, "")
	if dot := strings.LastIndex(rest, "."); dot > strings.LastIndex(rest, "/") {
		rest = rest[:dot]
	}
	return rest, nil
}
