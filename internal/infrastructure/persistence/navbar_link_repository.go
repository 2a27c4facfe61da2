package persistence

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNavbarLinkRepository implements NavbarLinkRepository using GORM
type GormNavbarLinkRepository struct {
	db *gorm.DB
}

// NewGormNavbarLinkRepository creates a new GormNavbarLinkRepository
func NewGormNavbarLinkRepository(db *gorm.DB) *GormNavbarLinkRepository {
	return &GormNavbarLinkRepository{db: db}
}

// FindByID finds a navbar link by its ID
func (r *GormNavbarLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.NavbarLink, error) {
	var model models.NavbarLinkModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every navbar link in display order
func (r *GormNavbarLinkRepository) FindAll(ctx context.Context) ([]content.NavbarLink, error) {
	return findNavbarLinks(r.db.WithContext(ctx))
}

// NextOrder returns max(display_order)+1, or 1 for an empty menu
func (r *GormNavbarLinkRepository) NextOrder(ctx context.Context) (int, error) {
	var maxOrder int64
	if err := r.db.WithContext(ctx).
		Model(&models.NavbarLinkModel{}).
		Select("COALESCE(MAX(display_order), 0)").
		Row().Scan(&maxOrder); err != nil {
		return 0, err
	}
	return int(maxOrder) + 1, nil
}

// Save creates or updates a navbar link
func (r *GormNavbarLinkRepository) Save(ctx context.Context, link *content.NavbarLink) error {
	var model models.NavbarLinkModel
	model.FromDomain(link)
	return translateError(r.db.WithContext(ctx).Save(&model).Error)
}

// Delete deletes a navbar link; remaining links keep their order values
func (r *GormNavbarLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NavbarLinkModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Move swaps the link's order with its neighbor in direction d.
// The unique index on display_order holds at every step: the moving link is
// parked on a free negative value before the neighbor takes its slot.
func (r *GormNavbarLinkRepository) Move(ctx context.Context, id uuid.UUID, d content.Direction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := tx
		if tx.Dialector.Name() == "postgres" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Session(&gorm.Session{})
		}

		var currentModel models.NavbarLinkModel
		if err := locked.First(&currentModel, "id = ?", id).Error; err != nil {
			return translateError(err)
		}
		links, err := findNavbarLinks(locked)
		if err != nil {
			return err
		}

		current := currentModel.ToDomain()
		neighbor := content.Neighbor(links, *current, d)
		if neighbor == nil {
			return content.ErrNavbarBoundary
		}

		parked := -1
		if len(links) > 0 && links[0].Order <= 0 {
			parked = links[0].Order - 1
		}
		current.SwapOrder(neighbor)

		steps := []struct {
			id    uuid.UUID
			order int
		}{
			{current.ID, parked},
			{neighbor.ID, neighbor.Order},
			{current.ID, current.Order},
		}
		for _, s := range steps {
			if err := tx.Model(&models.NavbarLinkModel{}).
				Where("id = ?", s.id).
				Update("display_order", s.order).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

func findNavbarLinks(db *gorm.DB) ([]content.NavbarLink, error) {
	var linkModels []models.NavbarLinkModel
	if err := db.Order("display_order ASC").Find(&linkModels).Error; err != nil {
		return nil, err
	}
	links := make([]content.NavbarLink, len(linkModels))
	for i := range linkModels {
		links[i] = *linkModels[i].ToDomain()
	}
	return links, nil
}

// Ensure GormNavbarLinkRepository implements NavbarLinkRepository
var _ content.NavbarLinkRepository = (*GormNavbarLinkRepository)(nil)
