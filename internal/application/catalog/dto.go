package catalog

import (
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkRequest is one marketplace offer submitted with a product
type LinkRequest struct {
	Marketplace  string `json:"marketplace" binding:"required,marketplace"`
	StoreName    string `json:"store_name" binding:"max=100"`
	OriginalURL  string `json:"original_url" binding:"required,url"`
	AffiliateURL string `json:"affiliate_url" binding:"omitempty,url"`
	Price        string `json:"price" binding:"required"`
	Region       string `json:"region" binding:"max=100"`
	IsVerified   *bool  `json:"is_verified"`
	IsStockReady *bool  `json:"is_stock_ready"`
}

// ProductRequest creates or fully replaces a product.
// Images lists already hosted image URLs; uploaded files are appended after them.
type ProductRequest struct {
	Name        string        `json:"name" binding:"required,min=1,max=200"`
	Slug        string        `json:"slug" binding:"omitempty,max=255,slug"`
	Description string        `json:"description" binding:"max=10000"`
	Pros        string        `json:"pros" binding:"max=5000"`
	Cons        string        `json:"cons" binding:"max=5000"`
	Images      []string      `json:"images" binding:"omitempty,dive,url"`
	CategoryID  *uuid.UUID    `json:"category_id"`
	TagIDs      []uuid.UUID   `json:"tag_ids"`
	Links       []LinkRequest `json:"links" binding:"omitempty,dive"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search      string `form:"search"`
	Category    string `form:"category"`
	Tag         string `form:"tag"`
	Marketplace string `form:"marketplace" binding:"omitempty,marketplace"`
	Sort        string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc name"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Slug string `json:"slug" binding:"omitempty,max=255,slug"`
}

// TagRequest creates or updates a tag
type TagRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// UploadImageResponse is the hosted URL of an uploaded image
type UploadImageResponse struct {
	URL string `json:"url"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkResponse represents a marketplace offer in API responses
type LinkResponse struct {
	ID           uuid.UUID       `json:"id"`
	Marketplace  string          `json:"marketplace"`
	StoreName    string          `json:"store_name"`
	OriginalURL  string          `json:"original_url"`
	AffiliateURL *string         `json:"affiliate_url"`
	BuyURL       string          `json:"buy_url"`
	Price        decimal.Decimal `json:"price"`
	PriceLabel   string          `json:"price_label"`
	Region       *string         `json:"region"`
	IsVerified   bool            `json:"is_verified"`
	IsStockReady bool            `json:"is_stock_ready"`
}

// PricePointResponse is one price history entry
type PricePointResponse struct {
	LinkID     uuid.UUID       `json:"link_id"`
	Price      decimal.Decimal `json:"price"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// ProductListItem is a product card on the storefront
type ProductListItem struct {
	ID         uuid.UUID         `json:"id"`
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	Image      string            `json:"image"`
	MinPrice   decimal.Decimal   `json:"min_price"`
	MaxPrice   decimal.Decimal   `json:"max_price"`
	PriceRange string            `json:"price_range"`
	Category   *CategoryResponse `json:"category"`
	LinkCount  int               `json:"link_count"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ProductResponse is the full product with links, taxonomy and price history
type ProductResponse struct {
	ID           uuid.UUID            `json:"id"`
	Slug         string               `json:"slug"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Pros         string               `json:"pros"`
	Cons         string               `json:"cons"`
	ProsList     []string             `json:"pros_list"`
	ConsList     []string             `json:"cons_list"`
	Images       []string             `json:"images"`
	MinPrice     decimal.Decimal      `json:"min_price"`
	MaxPrice     decimal.Decimal      `json:"max_price"`
	PriceRange   string               `json:"price_range"`
	Category     *CategoryResponse    `json:"category"`
	Tags         []TagResponse        `json:"tags"`
	Links        []LinkResponse       `json:"links"`
	PriceHistory []PricePointResponse `json:"price_history"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToTagResponse converts a domain Tag to TagResponse
func ToTagResponse(t *catalog.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
	}
}

// ToLinkResponse converts a domain ProductLink to LinkResponse
func ToLinkResponse(l *catalog.ProductLink) LinkResponse {
	buyURL := l.OriginalURL
	if l.AffiliateURL != nil {
		buyURL = *l.AffiliateURL
	}
	return LinkResponse{
		ID:           l.ID,
		Marketplace:  l.Marketplace.String(),
		StoreName:    l.StoreName,
		OriginalURL:  l.OriginalURL,
		AffiliateURL: l.AffiliateURL,
		BuyURL:       buyURL,
		Price:        l.CurrentPrice,
		PriceLabel:   FormatRupiah(l.CurrentPrice),
		Region:       l.Region,
		IsVerified:   l.IsVerified,
		IsStockReady: l.IsStockReady,
	}
}

// ToProductListItem converts a domain Product to ProductListItem
func ToProductListItem(p *catalog.Product) ProductListItem {
	item := ProductListItem{
		ID:         p.ID,
		Slug:       p.Slug,
		Name:       p.Name,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		PriceRange: FormatPriceRange(p.PriceSummary()),
		LinkCount:  len(p.Links),
		CreatedAt:  p.CreatedAt,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	if p.Category != nil {
		c := ToCategoryResponse(p.Category)
		item.Category = &c
	}
	return item
}

// ToProductResponse converts a domain Product and its price history to ProductResponse
func ToProductResponse(p *catalog.Product, history []catalog.PriceHistory) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Name:         p.Name,
		Description:  p.Description,
		Pros:         p.Pros,
		Cons:         p.Cons,
		ProsList:     nonNil(p.ProsList()),
		ConsList:     nonNil(p.ConsList()),
		Images:       nonNil(p.Images),
		MinPrice:     p.MinPrice,
		MaxPrice:     p.MaxPrice,
		PriceRange:   FormatPriceRange(p.PriceSummary()),
		Tags:         make([]TagResponse, len(p.Tags)),
		Links:        make([]LinkResponse, len(p.Links)),
		PriceHistory: make([]PricePointResponse, len(history)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Category != nil {
		c := ToCategoryResponse(p.Category)
		resp.Category = &c
	}
	for i := range p.Tags {
		resp.Tags[i] = ToTagResponse(&p.Tags[i])
	}
	for i := range p.Links {
		resp.Links[i] = ToLinkResponse(&p.Links[i])
	}
	for i, h := range history {
		resp.PriceHistory[i] = PricePointResponse{LinkID: h.LinkID, Price: h.Price, RecordedAt: h.RecordedAt}
	}
	return resp
}

// ToLinkInputs converts request links to domain inputs
func ToLinkInputs(links []LinkRequest) []catalog.LinkInput {
	inputs := make([]catalog.LinkInput, len(links))
	for i, l := range links {
		inputs[i] = catalog.LinkInput{
			Marketplace:  l.Marketplace,
			StoreName:    l.StoreName,
			OriginalURL:  l.OriginalURL,
			AffiliateURL: l.AffiliateURL,
			Price:        l.Price,
			Region:       l.Region,
			IsVerified:   l.IsVerified,
			IsStockReady: l.IsStockReady,
		}
	}
	return inputs
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
