package content

import (
	"encoding/json"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/google/uuid"
)

// PostRequest creates or updates a blog post.
// Content is either a block document or a bare array of blocks.
type PostRequest struct {
	Title         string          `json:"title" binding:"required,min=1,max=255"`
	Slug          string          `json:"slug" binding:"omitempty,max=255,slug"`
	Content       json.RawMessage `json:"content"`
	Thumbnail     string          `json:"thumbnail" binding:"omitempty,url"`
	ShopeeLink    string          `json:"shopee_link" binding:"omitempty,url"`
	TokpedLink    string          `json:"tokped_link" binding:"omitempty,url"`
	ReferenceLink string          `json:"reference_link" binding:"omitempty,url"`
}

// PostListFilter represents filter options for the post list
type PostListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NavbarLinkRequest creates or updates a menu entry
type NavbarLinkRequest struct {
	Label string `json:"label" binding:"required,min=1,max=100"`
	URL   string `json:"url" binding:"required,max=500"`
}

// MoveNavbarLinkRequest moves a menu entry one step
type MoveNavbarLinkRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// SiteSettingRequest replaces the site settings
type SiteSettingRequest struct {
	SiteName        string `json:"site_name" binding:"required,max=100"`
	SiteDescription string `json:"site_description" binding:"max=500"`
	LogoURL         string `json:"logo_url" binding:"omitempty,url"`
	HeroTitle       string `json:"hero_title" binding:"max=200"`
	HeroSubtitle    string `json:"hero_subtitle" binding:"max=500"`
	HeroImageURL    string `json:"hero_image_url" binding:"omitempty,url"`
	FooterText      string `json:"footer_text" binding:"max=500"`
	ContactEmail    string `json:"contact_email" binding:"omitempty,email"`
	ContactWhatsapp string `json:"contact_whatsapp" binding:"max=30"`
}

// PostListItem is the summary shown in post listings
type PostListItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Thumbnail *string   `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostResponse is the full post
type PostResponse struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Content       content.Document `json:"content"`
	Thumbnail     *string          `json:"thumbnail,omitempty"`
	ShopeeLink    *string          `json:"shopee_link,omitempty"`
	TokpedLink    *string          `json:"tokped_link,omitempty"`
	ReferenceLink *string          `json:"reference_link,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NavbarLinkResponse is one menu entry
type NavbarLinkResponse struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	URL   string    `json:"url"`
	Order int       `json:"order"`
}

// SiteSettingResponse is the site identity and hero copy
type SiteSettingResponse struct {
	SiteName        string    `json:"site_name"`
	SiteDescription string    `json:"site_description"`
	LogoURL         string    `json:"logo_url"`
	HeroTitle       string    `json:"hero_title"`
	HeroSubtitle    string    `json:"hero_subtitle"`
	HeroImageURL    string    `json:"hero_image_url"`
	FooterText      string    `json:"footer_text"`
	ContactEmail    string    `json:"contact_email"`
	ContactWhatsapp string    `json:"contact_whatsapp"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const excerptLength = 160

// ToPostListItem converts a post to its listing summary
func ToPostListItem(p *content.Post) PostListItem {
	return PostListItem{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt(excerptLength),
		Thumbnail: p.Thumbnail,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToPostResponse converts a post to its full response
func ToPostResponse(p *content.Post) PostResponse {
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Thumbnail:     p.Thumbnail,
		ShopeeLink:    p.ShopeeLink,
		TokpedLink:    p.TokpedLink,
		ReferenceLink: p.ReferenceLink,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToNavbarLinkResponse converts a navbar link to its response
func ToNavbarLinkResponse(l *content.NavbarLink) NavbarLinkResponse {
	return NavbarLinkResponse{
		ID:    l.ID,
		Label: l.Label,
		URL:   l.URL,
		Order: l.Order,
	}
}

// ToSiteSettingResponse converts the settings to their response
func ToSiteSettingResponse(s *content.SiteSetting) SiteSettingResponse {
	return SiteSettingResponse{
		SiteName:        s.SiteName,
		SiteDescription: s.SiteDescription,
		LogoURL:         s.LogoURL,
		HeroTitle:       s.HeroTitle,
		HeroSubtitle:    s.HeroSubtitle,
		HeroImageURL:    s.HeroImageURL,
		FooterText:      s.FooterText,
		ContactEmail:    s.ContactEmail,
		ContactWhatsapp: s.ContactWhatsapp,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r SiteSettingRequest) toInput() content.SiteSettingInput {
	return content.SiteSettingInput{
		SiteName:        r.SiteName,
		SiteDescription: r.SiteDescription,
		LogoURL:         r.LogoURL,
		HeroTitle:       r.HeroTitle,
		HeroSubtitle:    r.HeroSubtitle,
		HeroImageURL:    r.HeroImageURL,
		FooterText:      r.FooterText,
		ContactEmail:    r.ContactEmail,
		ContactWhatsapp: r.ContactWhatsapp,
	}
}

func (r PostRequest) links() content.PostLinks {
	return content.PostLinks{
		Thumbnail:     r.Thumbnail,
		ShopeeLink:    r.ShopeeLink,
		TokpedLink:    r.TokpedLink,
		ReferenceLink: r.ReferenceLink,
	}
}
