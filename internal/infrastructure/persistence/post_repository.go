package persistence

import (
	"context"
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// FindByID finds a post by its ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a post by its slug
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*content.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds posts matching the filter, newest first by default
func (r *GormPostRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.Post, error) {
	var postModels []models.PostModel
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.PostModel{}), filter)
	query = query.Order(postSort.clause(filter.OrderBy, filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}
	posts := make([]content.Post, len(postModels))
	for i := range postModels {
		posts[i] = *postModels[i].ToDomain()
	}
	return posts, nil
}

// Count counts posts matching the filter
func (r *GormPostRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applySearch(r.db.WithContext(ctx).Model(&models.PostModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a post
func (r *GormPostRepository) Save(ctx context.Context, post *content.Post) error {
	var model models.PostModel
	if err := model.FromDomain(post); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Save(&model).Error)
}

// Delete deletes a post
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return query
}

// Ensure GormPostRepository implements PostRepository
var _ content.PostRepository = (*GormPostRepository)(nil)
