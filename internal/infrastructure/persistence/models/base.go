package models

import (
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is embedded by every table row. Timestamps are written from the
// domain entity, so gorm's autoCreateTime is not used.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func baseFrom(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// All lists every model, parents before children
func All() []any {
	return []any{
		&CategoryModel{},
		&TagModel{},
		&ProductModel{},
		&ProductLinkModel{},
		&PriceHistoryModel{},
		&PostModel{},
		&NavbarLinkModel{},
		&SiteSettingModel{},
		&AdminModel{},
	}
}

// AutoMigrate creates the schema for tests and tooling. Deployed databases
// are migrated by cmd/migrate.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&ProductModel{}, "Tags", &ProductTagModel{}); err != nil {
		return err
	}
	return db.AutoMigrate(All()...)
}
