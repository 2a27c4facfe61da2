package catalog

import (
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry with offers on one or more marketplaces.
// MinPrice and MaxPrice are a cache of the link set and are only ever
// written by ReplaceLinks.
type Product struct {
	shared.BaseEntity
	Slug        string
	Name        string
	Description string
	Pros        string
	Cons        string
	Images      []string
	CategoryID  *uuid.UUID
	Category    *Category
	Tags        []Tag
	Links       []ProductLink
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal

	pendingHistory []PriceHistory
}

// NewProduct creates a product with no links. An empty slug is derived from name.
func NewProduct(name, slug string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Slug:       slug,
		Name:       strings.TrimSpace(name),
		Images:     []string{},
		MinPrice:   decimal.Zero,
		MaxPrice:   decimal.Zero,
	}, nil
}

// Update changes the product's descriptive fields
func (p *Product) Update(name, slug, description, pros, cons string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Slug = slug
	p.Description = description
	p.Pros = pros
	p.Cons = cons
	p.Touch()
	return nil
}

// SetDetails sets the free-text fields without touching name or slug
func (p *Product) SetDetails(description, pros, cons string) {
	p.Description = description
	p.Pros = pros
	p.Cons = cons
}

// SetImages replaces the ordered image list, dropping blank entries
func (p *Product) SetImages(images []string) {
	cleaned := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			cleaned = append(cleaned, img)
		}
	}
	p.Images = cleaned
}

// SetCategory assigns or clears the product's category
func (p *Product) SetCategory(category *Category) {
	p.Category = category
	if category == nil {
		p.CategoryID = nil
		return
	}
	id := category.ID
	p.CategoryID = &id
}

// SetTags replaces the product's tags, de-duplicated by ID
func (p *Product) SetTags(tags []Tag) {
	seen := make(map[uuid.UUID]struct{}, len(tags))
	unique := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		unique = append(unique, t)
	}
	p.Tags = unique
}

// ReplaceLinks swaps the whole link set and recomputes the cached price range.
// Offers already present (same marketplace and URL) keep their identity so
// their price history survives; a price history point is queued for every
// new offer and every offer whose price changed.
func (p *Product) ReplaceLinks(links []ProductLink) {
	previous := make(map[string]ProductLink, len(p.Links))
	for _, l := range p.Links {
		if _, ok := previous[l.offerKey()]; !ok {
			previous[l.offerKey()] = l
		}
	}

	replaced := make([]ProductLink, 0, len(links))
	for _, l := range links {
		l.ProductID = p.ID
		if old, ok := previous[l.offerKey()]; ok {
			delete(previous, l.offerKey())
			l.ID = old.ID
			l.CreatedAt = old.CreatedAt
			if !old.CurrentPrice.Equal(l.CurrentPrice) {
				p.pendingHistory = append(p.pendingHistory, NewPriceHistory(l.ID, l.CurrentPrice))
			}
		} else {
			p.pendingHistory = append(p.pendingHistory, NewPriceHistory(l.ID, l.CurrentPrice))
		}
		replaced = append(replaced, l)
	}

	p.Links = replaced
	summary := ComputeAggregate(replaced)
	p.MinPrice = summary.MinPrice
	p.MaxPrice = summary.MaxPrice
	p.Touch()
}

// PriceSummary returns the cached price range
func (p *Product) PriceSummary() PriceSummary {
	return PriceSummary{MinPrice: p.MinPrice, MaxPrice: p.MaxPrice}
}

// PendingPriceHistory returns price points queued by ReplaceLinks
func (p *Product) PendingPriceHistory() []PriceHistory {
	return p.pendingHistory
}

// ClearPendingPriceHistory drops queued price points once persisted
func (p *Product) ClearPendingPriceHistory() {
	p.pendingHistory = nil
}

// ProsList splits the pros text into one item per line
func (p *Product) ProsList() []string {
	return splitLines(p.Pros)
}

// ConsList splits the cons text into one item per line
func (p *Product) ConsList() []string {
	return splitLines(p.Cons)
}

// LinkIDs returns the IDs of all links
func (p *Product) LinkIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Links))
	for i, l := range p.Links {
		ids[i] = l.ID
	}
	return ids
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// resolveSlug slugifies an explicit slug or falls back to the name
func resolveSlug(slug, fallback string) (string, error) {
	source := slug
	if strings.TrimSpace(source) == "" {
		source = fallback
	}
	s := shared.Slugify(source)
	if s == "" {
		return "", shared.NewDomainError("INVALID_SLUG", "Slug must contain at least one letter or digit")
	}
	if len(s) > 255 {
		return "", shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 255 characters")
	}
	return s, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
