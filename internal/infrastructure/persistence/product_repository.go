package persistence

import (
	"context"
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// withAssociations preloads category, tags and links in display order
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_links.current_price ASC, product_links.created_at ASC")
		})
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := withAssociations(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := withAssociations(r.db.WithContext(ctx)).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.applyFilter(withAssociations(r.db.WithContext(ctx)).Model(&models.ProductModel{}), filter)

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a product with the given slug exists
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the product row and replaces its links, tag associations and
// the history of dropped links in one transaction
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ProductModelFromDomain(product)
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		var previousLinkIDs []uuid.UUID
		if err := tx.Model(&models.ProductLinkModel{}).
			Where("product_id = ?", product.ID).
			Pluck("id", &previousLinkIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductLinkModel{}).Error; err != nil {
			return err
		}

		if len(product.Links) > 0 {
			linkModels := make([]models.ProductLinkModel, len(product.Links))
			for i := range product.Links {
				product.Links[i].ProductID = product.ID
				linkModels[i].FromDomain(&product.Links[i])
			}
			if err := tx.Create(&linkModels).Error; err != nil {
				return err
			}
		}

		if dropped := droppedLinkIDs(previousLinkIDs, product.LinkIDs()); len(dropped) > 0 {
			if err := tx.Where("link_id IN ?", dropped).Delete(&models.PriceHistoryModel{}).Error; err != nil {
				return err
			}
		}

		if pending := product.PendingPriceHistory(); len(pending) > 0 {
			historyModels := make([]*models.PriceHistoryModel, len(pending))
			for i, h := range pending {
				historyModels[i] = models.PriceHistoryModelFromDomain(h)
			}
			if err := tx.Create(&historyModels).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductTagModel{}).Error; err != nil {
			return err
		}
		if len(product.Tags) > 0 {
			joins := make([]models.ProductTagModel, len(product.Tags))
			for i, t := range product.Tags {
				joins[i] = models.ProductTagModel{ProductID: product.ID, TagID: t.ID}
			}
			if err := tx.Create(&joins).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}
	product.ClearPendingPriceHistory()
	return nil
}

// Delete deletes a product with its links, tag associations and price history
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linkIDs []uuid.UUID
		if err := tx.Model(&models.ProductLinkModel{}).Where("product_id = ?", id).Pluck("id", &linkIDs).Error; err != nil {
			return err
		}
		if len(linkIDs) > 0 {
			if err := tx.Where("link_id IN ?", linkIDs).Delete(&models.PriceHistoryModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductLinkModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductTagModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountLinks counts all product links
func (r *GormProductRepository) CountLinks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductLinkModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options, ordering and pagination to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order(productSort.clause(filter.OrderBy, filter.OrderDir)).Order("id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies search and the storefront filters.
// Search uses LOWER ... LIKE so it behaves the same on postgres and sqlite.
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		v := strings.TrimSpace(value)
		if v == "" {
			continue
		}
		switch key {
		case catalog.FilterCategorySlug:
			query = query.Where("products.category_id IN (SELECT id FROM categories WHERE slug = ?)", v)
		case catalog.FilterTagSlug:
			query = query.Where(`EXISTS (SELECT 1 FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
				WHERE pt.product_id = products.id AND t.slug = ?)`, v)
		case catalog.FilterMarketplace:
			query = query.Where(`EXISTS (SELECT 1 FROM product_links pl
				WHERE pl.product_id = products.id AND pl.marketplace = ?)`, strings.ToUpper(v))
		}
	}
	return query
}

// droppedLinkIDs returns the IDs in previous that are absent from current
func droppedLinkIDs(previous, current []uuid.UUID) []uuid.UUID {
	kept := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		kept[id] = struct{}{}
	}
	var dropped []uuid.UUID
	for _, id := range previous {
		if _, ok := kept[id]; !ok {
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
