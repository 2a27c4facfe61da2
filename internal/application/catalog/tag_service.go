package catalog

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTagSlugExists is returned when a tag name or slug is taken
var ErrTagSlugExists = shared.NewDomainError("ALREADY_EXISTS", "Tag with this slug already exists")

// TagService handles tag-related business operations
type TagService struct {
	tagRepo     catalog.TagRepository
	revalidator shared.Revalidator
	logger      *zap.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo catalog.TagRepository, revalidator shared.Revalidator, logger *zap.Logger) *TagService {
	return &TagService{
		tagRepo:     tagRepo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// Create creates a new tag with a slug derived from its name
func (s *TagService) Create(ctx context.Context, req TagRequest) (*TagResponse, error) {
	tag, err := catalog.NewTag(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, conflict(err, ErrTagSlugExists)
	}

	s.revalidator.Revalidate(ctx, shared.CacheTagTags)

	resp := ToTagResponse(tag)
	return &resp, nil
}

// Update renames a tag and re-derives its slug
func (s *TagService) Update(ctx context.Context, id uuid.UUID, req TagRequest) (*TagResponse, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tag.Update(req.Name); err != nil {
		return nil, err
	}
	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, conflict(err, ErrTagSlugExists)
	}

	s.revalidator.Revalidate(ctx, shared.CacheTagTags, shared.CacheTagProducts)

	resp := ToTagResponse(tag)
	return &resp, nil
}

// Delete removes a tag and detaches it from every product
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Tag deleted", zap.String("tag_id", id.String()))
	s.revalidator.Revalidate(ctx, shared.CacheTagTags, shared.CacheTagProducts)
	return nil
}

// List retrieves all tags ordered by name
func (s *TagService) List(ctx context.Context, search string) ([]TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx, shared.Filter{Search: search, OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i := range tags {
		resp[i] = ToTagResponse(&tags[i])
	}
	return resp, nil
}
