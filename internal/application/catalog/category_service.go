package catalog

import (
	"context"
	"errors"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCategorySlugExists is returned when a category name or slug is taken
var ErrCategorySlugExists = shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	revalidator  shared.Revalidator
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, revalidator shared.Revalidator, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		revalidator:  revalidator,
		logger:       logger,
	}
}

// Create creates a new category, deriving the slug from the name when empty
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategoryWithSlug(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, conflict(err, ErrCategorySlugExists)
	}

	s.logger.Info("Category created", zap.String("slug", category.Slug))
	s.revalidator.Revalidate(ctx, shared.CacheTagCategories, shared.CacheTagProducts)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Slug); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, conflict(err, ErrCategorySlugExists)
	}

	s.revalidator.Revalidate(ctx, shared.CacheTagCategories, shared.CacheTagProducts)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category; its products become uncategorized
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	s.revalidator.Revalidate(ctx, shared.CacheTagCategories, shared.CacheTagProducts)
	return nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves all categories ordered by name
func (s *CategoryService) List(ctx context.Context, search string) ([]CategoryResponse, error) {
	filter := shared.Filter{Search: search, OrderBy: "name", OrderDir: "asc"}
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]CategoryResponse, len(categories))
	for i := range categories {
		resp[i] = ToCategoryResponse(&categories[i])
	}
	return resp, nil
}

// conflict replaces a repository uniqueness error with an entity-specific one
func conflict(err error, replacement *shared.DomainError) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return replacement
	}
	return err
}
