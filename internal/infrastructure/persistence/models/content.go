package models

import (
	"encoding/json"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"gorm.io/datatypes"
)

// PostModel is the persistence model for a blog post
type PostModel struct {
	BaseModel
	Title         string         `gorm:"type:varchar(255);not null"`
	Slug          string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Content       datatypes.JSON `gorm:"type:json;not null"`
	Thumbnail     *string        `gorm:"type:text"`
	ShopeeLink    *string        `gorm:"type:text"`
	TokpedLink    *string        `gorm:"type:text"`
	ReferenceLink *string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts the persistence model to a domain Post.
// Content that no longer parses is surfaced as an empty document.
func (m *PostModel) ToDomain() *content.Post {
	doc, err := content.ParseDocument(m.Content)
	if err != nil {
		doc = content.Document{Blocks: []content.Block{}}
	}
	return &content.Post{
		BaseEntity:    m.BaseModel.entity(),
		Title:         m.Title,
		Slug:          m.Slug,
		Content:       doc,
		Thumbnail:     m.Thumbnail,
		ShopeeLink:    m.ShopeeLink,
		TokpedLink:    m.TokpedLink,
		ReferenceLink: m.ReferenceLink,
	}
}

// FromDomain populates the persistence model from a domain Post
func (m *PostModel) FromDomain(p *content.Post) error {
	raw, err := json.Marshal(p.Content)
	if err != nil {
		return err
	}
	m.BaseModel = baseFrom(p.BaseEntity)
	m.Title = p.Title
	m.Slug = p.Slug
	m.Content = datatypes.JSON(raw)
	m.Thumbnail = p.Thumbnail
	m.ShopeeLink = p.ShopeeLink
	m.TokpedLink = p.TokpedLink
	m.ReferenceLink = p.ReferenceLink
	return nil
}

// NavbarLinkModel is the persistence model for a navigation menu entry.
// "order" is a reserved word, so the column is display_order.
type NavbarLinkModel struct {
	BaseModel
	Label string `gorm:"type:varchar(100);not null"`
	URL   string `gorm:"column:url;type:text;not null"`
	Order int    `gorm:"column:display_order;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (NavbarLinkModel) TableName() string {
	return "navbar_links"
}

// ToDomain converts the persistence model to a domain NavbarLink
func (m *NavbarLinkModel) ToDomain() *content.NavbarLink {
	return &content.NavbarLink{
		BaseEntity: m.BaseModel.entity(),
		Label:      m.Label,
		URL:        m.URL,
		Order:      m.Order,
	}
}

// FromDomain populates the persistence model from a domain NavbarLink
func (m *NavbarLinkModel) FromDomain(l *content.NavbarLink) {
	m.BaseModel = baseFrom(l.BaseEntity)
	m.Label = l.Label
	m.URL = l.URL
	m.Order = l.Order
}

// SiteSettingModel is the persistence model for the settings singleton
type SiteSettingModel struct {
	BaseModel
	SiteName        string `gorm:"type:varchar(100);not null"`
	SiteDescription string `gorm:"type:text"`
	LogoURL         string `gorm:"column:logo_url;type:text"`
	HeroTitle       string `gorm:"type:varchar(255)"`
	HeroSubtitle    string `gorm:"type:text"`
	HeroImageURL    string `gorm:"column:hero_image_url;type:text"`
	FooterText      string `gorm:"type:text"`
	ContactEmail    string `gorm:"type:varchar(255)"`
	ContactWhatsapp string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (SiteSettingModel) TableName() string {
	return "site_settings"
}

// ToDomain converts the persistence model to a domain SiteSetting
func (m *SiteSettingModel) ToDomain() *content.SiteSetting {
	return &content.SiteSetting{
		BaseEntity:      m.BaseModel.entity(),
		SiteName:        m.SiteName,
		SiteDescription: m.SiteDescription,
		LogoURL:         m.LogoURL,
		HeroTitle:       m.HeroTitle,
		HeroSubtitle:    m.HeroSubtitle,
		HeroImageURL:    m.HeroImageURL,
		FooterText:      m.FooterText,
		ContactEmail:    m.ContactEmail,
		ContactWhatsapp: m.ContactWhatsapp,
	}
}

// FromDomain populates the persistence model from a domain SiteSetting
func (m *SiteSettingModel) FromDomain(s *content.SiteSetting) {
	m.BaseModel = baseFrom(s.BaseEntity)
	m.SiteName = s.SiteName
	m.SiteDescription = s.SiteDescription
	m.LogoURL = s.LogoURL
	m.HeroTitle = s.HeroTitle
	m.HeroSubtitle = s.HeroSubtitle
	m.HeroImageURL = s.HeroImageURL
	m.FooterText = s.FooterText
	m.ContactEmail = s.ContactEmail
	m.ContactWhatsapp = s.ContactWhatsapp
}
