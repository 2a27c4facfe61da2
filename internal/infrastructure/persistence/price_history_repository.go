package persistence

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceHistoryRepository implements PriceHistoryRepository using GORM
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// FindByLinkIDs returns the history of the given links, oldest first
func (r *GormPriceHistoryRepository) FindByLinkIDs(ctx context.Context, linkIDs []uuid.UUID) ([]catalog.PriceHistory, error) {
	if len(linkIDs) == 0 {
		return []catalog.PriceHistory{}, nil
	}
	var historyModels []models.PriceHistoryModel
	if err := r.db.WithContext(ctx).
		Where("link_id IN ?", linkIDs).
		Order("recorded_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	history := make([]catalog.PriceHistory, len(historyModels))
	for i := range historyModels {
		history[i] = historyModels[i].ToDomain()
	}
	return history, nil
}

// Append inserts history points
func (r *GormPriceHistoryRepository) Append(ctx context.Context, entries ...catalog.PriceHistory) error {
	if len(entries) == 0 {
		return nil
	}
	historyModels := make([]*models.PriceHistoryModel, len(entries))
	for i, h := range entries {
		historyModels[i] = models.PriceHistoryModelFromDomain(h)
	}
	return r.db.WithContext(ctx).Create(&historyModels).Error
}

// Ensure GormPriceHistoryRepository implements PriceHistoryRepository
var _ catalog.PriceHistoryRepository = (*GormPriceHistoryRepository)(nil)
