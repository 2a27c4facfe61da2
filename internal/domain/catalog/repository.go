package catalog

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Keys understood in shared.Filter.Filters by ProductRepository
const (
	FilterCategorySlug = "category"
	FilterTagSlug      = "tag"
	FilterMarketplace  = "marketplace"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID with its links, category and tags
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by slug with its links, category and tags
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindAll finds products matching the filter (search, category, tag, marketplace)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks whether a product already uses slug
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates a product together with its full link set,
	// tag associations and pending price history in one transaction
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product and everything it owns
	Delete(ctx context.Context, id uuid.UUID) error

	// CountLinks counts all product links
	CountLinks(ctx context.Context) (int64, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOrCreate returns the category with the given slug, inserting it
	// atomically when it does not exist yet
	FindOrCreate(ctx context.Context, name, slug string) (*Category, error)
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	FindBySlug(ctx context.Context, slug string) (*Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tag, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tag, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tag *Tag) error

	// Delete removes the tag and detaches it from every product
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOrCreate returns the tag with the given slug, inserting it
	// atomically when it does not exist yet
	FindOrCreate(ctx context.Context, name, slug string) (*Tag, error)
}

// PriceHistoryRepository reads the append-only price history
type PriceHistoryRepository interface {
	// FindByLinkIDs returns history for the given links, oldest first
	FindByLinkIDs(ctx context.Context, linkIDs []uuid.UUID) ([]PriceHistory, error)

	// Append adds history points
	Append(ctx context.Context, entries ...PriceHistory) error
}
