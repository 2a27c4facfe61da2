// Package content manages blog posts, the navigation menu and site settings.
package content

import (
	"context"
	"errors"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPostSlugExists is returned when a post slug is taken
var ErrPostSlugExists = shared.NewDomainError("ALREADY_EXISTS", "Post with this slug already exists")

// PostService handles blog post operations
type PostService struct {
	postRepo    content.PostRepository
	revalidator shared.Revalidator
	logger      *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(postRepo content.PostRepository, revalidator shared.Revalidator, logger *zap.Logger) *PostService {
	return &PostService{
		postRepo:    postRepo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// Create validates the block content and stores a new post
func (s *PostService) Create(ctx context.Context, req PostRequest) (*PostResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "post", "create")
	defer span.End()

	doc, err := content.ParseDocument(req.Content)
	if err != nil {
		return nil, err
	}
	post, err := content.NewPost(req.Title, req.Slug, doc, req.links())
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, postConflict(err)
	}

	s.logger.Info("Post created", zap.String("slug", post.Slug))
	s.revalidator.Revalidate(ctx, shared.CacheTagPosts)

	resp := ToPostResponse(post)
	return &resp, nil
}

// Update replaces every field of a post
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req PostRequest) (*PostResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "post", "update")
	defer span.End()

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := content.ParseDocument(req.Content)
	if err != nil {
		return nil, err
	}
	if err := post.Update(req.Title, req.Slug, doc, req.links()); err != nil {
		return nil, err
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, postConflict(err)
	}

	s.revalidator.Revalidate(ctx, shared.CacheTagPosts)

	resp := ToPostResponse(post)
	return &resp, nil
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Post deleted", zap.String("post_id", id.String()))
	s.revalidator.Revalidate(ctx, shared.CacheTagPosts)
	return nil
}

// GetByID retrieves a post by ID
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// GetBySlug retrieves a post by slug
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*PostResponse, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// List returns newest posts first
func (s *PostService) List(ctx context.Context, filter PostListFilter) (*shared.Paginated[PostListItem], error) {
	f := shared.DefaultFilter()
	f.Search = filter.Search
	f.OrderBy, f.OrderDir = "created_at", "desc"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	posts, err := s.postRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]PostListItem, len(posts))
	for i := range posts {
		items[i] = ToPostListItem(&posts[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func postConflict(err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return ErrPostSlugExists
	}
	return err
}
