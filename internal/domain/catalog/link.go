package catalog

import (
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductLink is one vendor offer for a product on a marketplace.
// Links are owned by exactly one product and are replaced wholesale when the
// product's link set changes.
type ProductLink struct {
	shared.BaseEntity
	ProductID    uuid.UUID
	Marketplace  Marketplace
	StoreName    string
	OriginalURL  string
	AffiliateURL *string
	CurrentPrice decimal.Decimal
	Region       *string
	IsVerified   bool
	IsStockReady bool
}

// LinkInput is a loosely typed link submission from a form or spreadsheet row
type LinkInput struct {
	Marketplace  string
	StoreName    string
	OriginalURL  string
	AffiliateURL string
	Price        string
	Region       string
	IsVerified   *bool
	IsStockReady *bool
}

// NormalizeLink validates a link submission and fills in defaults.
// trusted marks the bulk import path, where links count as verified unless
// stated otherwise.
func NormalizeLink(in LinkInput, trusted bool) (ProductLink, error) {
	marketplace, err := ParseMarketplace(in.Marketplace)
	if err != nil {
		return ProductLink{}, err
	}

	originalURL := strings.TrimSpace(in.OriginalURL)
	if originalURL == "" {
		return ProductLink{}, shared.NewDomainError("INVALID_URL", "Link URL cannot be empty")
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return ProductLink{}, err
	}

	storeName := strings.TrimSpace(in.StoreName)
	if storeName == "" {
		storeName = marketplace.DefaultStoreName()
	}

	link := ProductLink{
		BaseEntity:   shared.NewBaseEntity(),
		Marketplace:  marketplace,
		StoreName:    storeName,
		OriginalURL:  originalURL,
		AffiliateURL: optionalString(in.AffiliateURL),
		CurrentPrice: price,
		Region:       optionalString(in.Region),
		IsVerified:   trusted,
		IsStockReady: true,
	}
	if in.IsVerified != nil {
		link.IsVerified = *in.IsVerified
	}
	if in.IsStockReady != nil {
		link.IsStockReady = *in.IsStockReady
	}
	return link, nil
}

// NormalizeLinks normalizes every submission, failing on the first invalid one
func NormalizeLinks(inputs []LinkInput, trusted bool) ([]ProductLink, error) {
	links := make([]ProductLink, 0, len(inputs))
	for _, in := range inputs {
		link, err := NormalizeLink(in, trusted)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// ParsePrice parses a non-negative price. Empty or malformed values are errors.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Price cannot be empty")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return price.Round(2), nil
}

// ParsePriceOrZero is the lenient variant used by spreadsheet import
func ParsePriceOrZero(raw string) decimal.Decimal {
	price, err := ParsePrice(raw)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// offerKey identifies the same offer across link set replacements
func (l ProductLink) offerKey() string {
	return string(l.Marketplace) + "|" + l.OriginalURL
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
