package catalog

import (
	"fmt"
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
)

// Marketplace identifies the third-party storefront a product link points to
type Marketplace string

const (
	MarketplaceShopee        Marketplace = "SHOPEE"
	MarketplaceTokopedia     Marketplace = "TOKOPEDIA"
	MarketplaceTiktok        Marketplace = "TIKTOK"
	MarketplaceLazada        Marketplace = "LAZADA"
	MarketplaceBlibli        Marketplace = "BLIBLI"
	MarketplaceWhatsappLokal Marketplace = "WHATSAPP_LOKAL"
	MarketplaceWebsiteResmi  Marketplace = "WEBSITE_RESMI"
)

// AllMarketplaces returns every supported marketplace in display order
func AllMarketplaces() []Marketplace {
	return []Marketplace{
		MarketplaceShopee,
		MarketplaceTokopedia,
		MarketplaceTiktok,
		MarketplaceLazada,
		MarketplaceBlibli,
		MarketplaceWhatsappLokal,
		MarketplaceWebsiteResmi,
	}
}

// IsValid reports whether m is one of the supported marketplaces
func (m Marketplace) IsValid() bool {
	for _, known := range AllMarketplaces() {
		if m == known {
			return true
		}
	}
	return false
}

// String returns the marketplace value
func (m Marketplace) String() string {
	return string(m)
}

// DefaultStoreName is the store label used when a link has none
func (m Marketplace) DefaultStoreName() string {
	return string(m) + " Store"
}

// ParseMarketplace parses a marketplace value case-insensitively.
// Unknown values are rejected rather than dropped.
func ParseMarketplace(s string) (Marketplace, error) {
	m := Marketplace(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", shared.NewDomainError("INVALID_MARKETPLACE", fmt.Sprintf("Unknown marketplace %q", s))
	}
	return m, nil
}
