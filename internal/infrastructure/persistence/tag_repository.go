package persistence

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a tag by its slug
func (r *GormTagRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds every tag whose ID is in ids; unknown IDs are ignored
func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	if len(ids) == 0 {
		return []catalog.Tag{}, nil
	}
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(tagModels), nil
}

// FindAll finds all tags matching the filter
func (r *GormTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	var tagModels []models.TagModel
	query := applyNameFilter(r.db.WithContext(ctx).Model(&models.TagModel{}), filter)
	query = query.Order(tagSort.clause(filter.OrderBy, filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(tagModels), nil
}

// Count counts tags matching the filter
func (r *GormTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyNameFilter(r.db.WithContext(ctx).Model(&models.TagModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	var model models.TagModel
	model.FromDomain(tag)
	return translateError(r.db.WithContext(ctx).Save(&model).Error)
}

// Delete detaches the tag from every product and deletes it
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.ProductTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TagModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindOrCreate inserts the tag unless the slug is taken, then reads it back
func (r *GormTagRepository) FindOrCreate(ctx context.Context, name, slug string) (*catalog.Tag, error) {
	tag, err := catalog.NewTag(name)
	if err != nil {
		return nil, err
	}
	if s := shared.Slugify(slug); s != "" {
		tag.Slug = s
	}
	var model models.TagModel
	model.FromDomain(tag)

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return r.FindBySlug(ctx, tag.Slug)
}

func tagsToDomain(tagModels []models.TagModel) []catalog.Tag {
	tags := make([]catalog.Tag, len(tagModels))
	for i := range tagModels {
		tags[i] = *tagModels[i].ToDomain()
	}
	return tags
}

// Ensure GormTagRepository implements TagRepository
var _ catalog.TagRepository = (*GormTagRepository)(nil)
