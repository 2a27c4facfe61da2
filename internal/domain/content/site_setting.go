package content

import (
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
)

// SiteSetting holds site identity and homepage hero copy. Exactly one row exists.
type SiteSetting struct {
	shared.BaseEntity
	SiteName        string
	SiteDescription string
	LogoURL         string
	HeroTitle       string
	HeroSubtitle    string
	HeroImageURL    string
	FooterText      string
	ContactEmail    string
	ContactWhatsapp string
}

// SiteSettingInput is the editable part of the settings
type SiteSettingInput struct {
	SiteName        string
	SiteDescription string
	LogoURL         string
	HeroTitle       string
	HeroSubtitle    string
	HeroImageURL    string
	FooterText      string
	ContactEmail    string
	ContactWhatsapp string
}

// DefaultSiteSetting returns the settings used to seed a fresh database
func DefaultSiteSetting() *SiteSetting {
	return &SiteSetting{
		BaseEntity:      shared.NewBaseEntity(),
		SiteName:        "JagoPilih",
		SiteDescription: "Rekomendasi produk terbaik dengan harga termurah dari berbagai marketplace",
		HeroTitle:       "Bandingkan harga, pilih yang terbaik",
		HeroSubtitle:    "Kurasi produk pilihan dari Shopee, Tokopedia, TikTok Shop dan lainnya",
		FooterText:      "© JagoPilih",
	}
}

// Apply overwrites the settings with input
func (s *SiteSetting) Apply(in SiteSettingInput) error {
	name := strings.TrimSpace(in.SiteName)
	if name == "" {
		return shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot be empty")
	}
	s.SiteName = name
	s.SiteDescription = strings.TrimSpace(in.SiteDescription)
	s.LogoURL = strings.TrimSpace(in.LogoURL)
	s.HeroTitle = strings.TrimSpace(in.HeroTitle)
	s.HeroSubtitle = strings.TrimSpace(in.HeroSubtitle)
	s.HeroImageURL = strings.TrimSpace(in.HeroImageURL)
	s.FooterText = strings.TrimSpace(in.FooterText)
	s.ContactEmail = strings.TrimSpace(in.ContactEmail)
	s.ContactWhatsapp = strings.TrimSpace(in.ContactWhatsapp)
	s.Touch()
	return nil
}
