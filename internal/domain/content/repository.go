package content

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// PostRepository defines the interface for post persistence
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Post, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NavbarLinkRepository defines the interface for navbar link persistence
type NavbarLinkRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*NavbarLink, error)

	// FindAll returns every link in display order
	FindAll(ctx context.Context) ([]NavbarLink, error)

	// NextOrder returns the order value that appends after the last link
	NextOrder(ctx context.Context) (int, error)

	Save(ctx context.Context, link *NavbarLink) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Move swaps the link with its neighbor in direction d inside a single
	// transaction. It returns ErrNavbarBoundary when there is no neighbor.
	Move(ctx context.Context, id uuid.UUID, d Direction) error
}

// SiteSettingRepository reads and writes the settings singleton
type SiteSettingRepository interface {
	// Get returns the settings row, or shared.ErrNotFound when unseeded
	Get(ctx context.Context) (*SiteSetting, error)
	Save(ctx context.Context, setting *SiteSetting) error
}
