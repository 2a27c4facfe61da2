// Package storage provides image hosting backends for uploaded product,
// post and site images.
package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Supported providers
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
	ProviderStub       = "stub"
)

// Option configures an uploader
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the clock used to build object names
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewUploader builds the uploader selected by cfg.Provider
func NewUploader(cfg *config.StorageConfig, opts ...Option) (catalogapp.ImageUploader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}
	switch cfg.Provider {
	case ProviderCloudinary:
		return NewCloudinaryUploader(cfg, opts...)
	case ProviderS3:
		return NewS3ObjectStorage(cfg, opts...)
	case ProviderStub, "":
		return NewStubUploader(cfg.PublicBaseURL, opts...), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// objectName turns an uploaded file name into a unique, URL-safe base name
// without extension, e.g. "Foto Produk.JPG" -> "foto-produk-1700000000000-1a2b3c4d".
func objectName(filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	slug := shared.Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return fmt.Sprintf("%s-%d-%s", slug, now.UnixMilli(), uuid.NewString()[:8])
}

// extension returns the lower-cased extension of filename including the dot
func extension(filename string) string {
	return strings.ToLower(path.Ext(filename))
}

// joinFolder joins a root folder and a sub folder, dropping empty parts
func joinFolder(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/ "); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "/")
}
