package models

import (
	"encoding/json"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductModel is the persistence model for the Product aggregate root.
// Associations are written explicitly by the repository, never by gorm's
// association auto-save.
type ProductModel struct {
	BaseModel
	Slug        string             `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name        string             `gorm:"type:varchar(200);not null;index"`
	Description string             `gorm:"type:text"`
	Pros        string             `gorm:"type:text"`
	Cons        string             `gorm:"type:text"`
	Images      datatypes.JSON     `gorm:"type:json"`
	CategoryID  *uuid.UUID         `gorm:"type:uuid;index"`
	Category    *CategoryModel     `gorm:"foreignKey:CategoryID"`
	Tags        []TagModel         `gorm:"many2many:product_tags;joinForeignKey:ProductID;joinReferences:TagID"`
	Links       []ProductLinkModel `gorm:"foreignKey:ProductID"`
	MinPrice    decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0;index"`
	MaxPrice    decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:  m.BaseModel.entity(),
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Pros:        m.Pros,
		Cons:        m.Cons,
		Images:      decodeStringList(m.Images),
		CategoryID:  m.CategoryID,
		MinPrice:    m.MinPrice,
		MaxPrice:    m.MaxPrice,
	}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	p.Tags = make([]catalog.Tag, len(m.Tags))
	for i := range m.Tags {
		p.Tags[i] = *m.Tags[i].ToDomain()
	}
	p.Links = make([]catalog.ProductLink, len(m.Links))
	for i := range m.Links {
		p.Links[i] = *m.Links[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
// Links and tags are not copied; the repository persists them separately.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.BaseModel = baseFrom(p.BaseEntity)
	m.Slug = p.Slug
	m.Name = p.Name
	m.Description = p.Description
	m.Pros = p.Pros
	m.Cons = p.Cons
	m.Images = encodeStringList(p.Images)
	m.CategoryID = p.CategoryID
	m.MinPrice = p.MinPrice
	m.MaxPrice = p.MaxPrice
}

// ProductModelFromDomain creates a new persistence model from domain entity
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductLinkModel is the persistence model for one marketplace offer
type ProductLinkModel struct {
	BaseModel
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Marketplace  string          `gorm:"type:varchar(30);not null;index"`
	StoreName    string          `gorm:"type:varchar(200);not null"`
	OriginalURL  string          `gorm:"type:text;not null"`
	AffiliateURL *string         `gorm:"type:text"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Region       *string         `gorm:"type:varchar(100)"`
	IsVerified   bool            `gorm:"not null;default:false"`
	IsStockReady bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductLinkModel) TableName() string {
	return "product_links"
}

// ToDomain converts the persistence model to a domain ProductLink
func (m *ProductLinkModel) ToDomain() *catalog.ProductLink {
	return &catalog.ProductLink{
		BaseEntity:   m.BaseModel.entity(),
		ProductID:    m.ProductID,
		Marketplace:  catalog.Marketplace(m.Marketplace),
		StoreName:    m.StoreName,
		OriginalURL:  m.OriginalURL,
		AffiliateURL: m.AffiliateURL,
		CurrentPrice: m.CurrentPrice,
		Region:       m.Region,
		IsVerified:   m.IsVerified,
		IsStockReady: m.IsStockReady,
	}
}

// FromDomain populates the persistence model from a domain ProductLink
func (m *ProductLinkModel) FromDomain(l *catalog.ProductLink) {
	m.BaseModel = baseFrom(l.BaseEntity)
	m.ProductID = l.ProductID
	m.Marketplace = string(l.Marketplace)
	m.StoreName = l.StoreName
	m.OriginalURL = l.OriginalURL
	m.AffiliateURL = l.AffiliateURL
	m.CurrentPrice = l.CurrentPrice
	m.Region = l.Region
	m.IsVerified = l.IsVerified
	m.IsStockReady = l.IsStockReady
}

// PriceHistoryModel is an append-only price observation. It has no foreign
// key to product_links because links are deleted and re-inserted on every
// product save; rows for dropped links are removed by the product repository.
type PriceHistoryModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LinkID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RecordedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PriceHistoryModel) TableName() string {
	return "price_histories"
}

// ToDomain converts the persistence model to a domain PriceHistory
func (m *PriceHistoryModel) ToDomain() catalog.PriceHistory {
	return catalog.PriceHistory{
		ID:         m.ID,
		LinkID:     m.LinkID,
		Price:      m.Price,
		RecordedAt: m.RecordedAt,
	}
}

// PriceHistoryModelFromDomain creates a new persistence model from domain value
func PriceHistoryModelFromDomain(h catalog.PriceHistory) *PriceHistoryModel {
	return &PriceHistoryModel{
		ID:         h.ID,
		LinkID:     h.LinkID,
		Price:      h.Price,
		RecordedAt: h.RecordedAt,
	}
}

// CategoryModel is the persistence model for Category
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.entity(),
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.BaseModel = baseFrom(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
}

// TagModel is the persistence model for Tag
type TagModel struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag
func (m *TagModel) ToDomain() *catalog.Tag {
	return &catalog.Tag{
		BaseEntity: m.BaseModel.entity(),
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// FromDomain populates the persistence model from a domain Tag
func (m *TagModel) FromDomain(t *catalog.Tag) {
	m.BaseModel = baseFrom(t.BaseEntity)
	m.Name = t.Name
	m.Slug = t.Slug
}

// ProductTagModel is the product_tags join row
type ProductTagModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ProductTagModel) TableName() string {
	return "product_tags"
}

func encodeStringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

func decodeStringList(raw datatypes.JSON) []string {
	items := []string{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return items
}
