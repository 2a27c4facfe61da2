package catalog

import (
	"context"
	"errors"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProductSlugExists is returned when a product slug is already taken
var ErrProductSlugExists = shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")

// storefront sort keys mapped to repository order fields
var productSorts = map[string]struct{ field, dir string }{
	"newest":     {"created_at", "desc"},
	"price_asc":  {"min_price", "asc"},
	"price_desc": {"min_price", "desc"},
	"name":       {"name", "asc"},
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	tagRepo      catalog.TagRepository
	historyRepo  catalog.PriceHistoryRepository
	images       *ImageService
	revalidator  shared.Revalidator
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	tagRepo catalog.TagRepository,
	historyRepo catalog.PriceHistoryRepository,
	images *ImageService,
	revalidator shared.Revalidator,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		historyRepo:  historyRepo,
		images:       images,
		revalidator:  revalidator,
		logger:       logger,
	}
}

// Create validates the submission, uploads its images and stores the product
// with its full link set. Nothing is written when any link or upload fails.
func (s *ProductService) Create(ctx context.Context, req ProductRequest, files []ImageFile) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create",
		telemetry.LinkCount(len(req.Links)), telemetry.ImageCount(len(files)))
	defer span.End()

	product, err := catalog.NewProduct(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.Slug(product.Slug))

	exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, ErrProductSlugExists
	}

	if err := s.apply(ctx, product, req, files); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
		zap.Int("links", len(product.Links)))
	s.revalidator.Revalidate(ctx, shared.CacheTagProducts)

	return s.detail(ctx, product)
}

// Update replaces a product's fields, images, taxonomy and whole link set
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest, files []ImageFile) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update",
		telemetry.ProductID(id.String()), telemetry.LinkCount(len(req.Links)))
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousSlug := product.Slug
	if err := product.Update(req.Name, req.Slug, req.Description, req.Pros, req.Cons); err != nil {
		return nil, err
	}
	if product.Slug != previousSlug {
		exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrProductSlugExists
		}
	}

	if err := s.apply(ctx, product, req, files); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Product updated",
		zap.String("product_id", product.ID.String()),
		zap.Int("links", len(product.Links)))
	s.revalidator.Revalidate(ctx, shared.CacheTagProducts)

	return s.detail(ctx, product)
}

// apply resolves links, taxonomy and images onto product and saves it
func (s *ProductService) apply(ctx context.Context, product *catalog.Product, req ProductRequest, files []ImageFile) error {
	links, err := catalog.NormalizeLinks(ToLinkInputs(req.Links), false)
	if err != nil {
		return err
	}

	var category *catalog.Category
	if req.CategoryID != nil {
		category, err = s.categoryRepo.FindByID(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return err
	}

	uploaded, err := s.images.UploadAll(ctx, files)
	if err != nil {
		return err
	}

	product.SetDetails(req.Description, req.Pros, req.Cons)
	product.SetImages(append(append([]string{}, req.Images...), uploaded...))
	product.SetCategory(category)
	product.SetTags(tags)
	product.ReplaceLinks(links)

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.images.DeleteAll(context.WithoutCancel(ctx), uploaded)
		if errors.Is(err, shared.ErrAlreadyExists) {
			return ErrProductSlugExists
		}
		return err
	}
	return nil
}

func (s *ProductService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, shared.NewDomainError("INVALID_TAG", "One or more tags were not found")
	}
	return tags, nil
}

// Delete removes a product with its links and price history. Its image URLs
// may be shared with other products, so they stay on the image host.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()), zap.String("slug", product.Slug))
	s.revalidator.Revalidate(ctx, shared.CacheTagProducts)
	return nil
}

// GetByID retrieves a product with its price history
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, product)
}

// GetBySlug retrieves a product for the storefront detail page
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, product)
}

func (s *ProductService) detail(ctx context.Context, product *catalog.Product) (*ProductResponse, error) {
	var history []catalog.PriceHistory
	if ids := product.LinkIDs(); len(ids) > 0 {
		var err error
		history, err = s.historyRepo.FindByLinkIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	resp := ToProductResponse(product, history)
	return &resp, nil
}

// List retrieves a page of products matching the storefront filters
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductListItem], error) {
	domainFilter := toProductFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductListItem, len(products))
	for i := range products {
		items[i] = ToProductListItem(&products[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func toProductFilter(filter ProductListFilter) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = filter.Search
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if sort, ok := productSorts[filter.Sort]; ok {
		f.OrderBy, f.OrderDir = sort.field, sort.dir
	}
	if filter.Category != "" {
		f.Filters[catalog.FilterCategorySlug] = filter.Category
	}
	if filter.Tag != "" {
		f.Filters[catalog.FilterTagSlug] = filter.Tag
	}
	if filter.Marketplace != "" {
		f.Filters[catalog.FilterMarketplace] = filter.Marketplace
	}
	return f
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
