package persistence

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSiteSettingRepository implements SiteSettingRepository using GORM.
// The table holds a single row; the oldest row wins if more were ever inserted.
type GormSiteSettingRepository struct {
	db *gorm.DB
}

// NewGormSiteSettingRepository creates a new GormSiteSettingRepository
func NewGormSiteSettingRepository(db *gorm.DB) *GormSiteSettingRepository {
	return &GormSiteSettingRepository{db: db}
}

// Get returns the settings row
func (r *GormSiteSettingRepository) Get(ctx context.Context) (*content.SiteSetting, error) {
	var model models.SiteSettingModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates the settings row
func (r *GormSiteSettingRepository) Save(ctx context.Context, setting *content.SiteSetting) error {
	var model models.SiteSettingModel
	model.FromDomain(setting)
	return translateError(r.db.WithContext(ctx).Save(&model).Error)
}

// Ensure GormSiteSettingRepository implements SiteSettingRepository
var _ content.SiteSettingRepository = (*GormSiteSettingRepository)(nil)
