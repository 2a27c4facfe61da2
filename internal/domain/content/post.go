package content

import (
	"encoding/json"
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
)

// Block is one typed element of a block-editor document. Data is kept opaque.
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Document is the block-editor payload stored as a post's content
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// ParseDocument accepts either a full editor document or a bare block array
func ParseDocument(raw []byte) (Document, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Document{Blocks: []Block{}}, nil
	}

	var doc Document
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &doc.Blocks); err != nil {
			return Document{}, shared.NewDomainError("INVALID_CONTENT", "Content must be a list of blocks")
		}
	} else if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return Document{}, shared.NewDomainError("INVALID_CONTENT", "Content must be a block document")
	}
	if doc.Blocks == nil {
		doc.Blocks = []Block{}
	}
	for _, b := range doc.Blocks {
		if strings.TrimSpace(b.Type) == "" {
			return Document{}, shared.NewDomainError("INVALID_CONTENT", "Every content block needs a type")
		}
	}
	return doc, nil
}

// Post is a blog article rendered from block content
type Post struct {
	shared.BaseEntity
	Title         string
	Slug          string
	Content       Document
	Thumbnail     *string
	ShopeeLink    *string
	TokpedLink    *string
	ReferenceLink *string
}

// PostLinks carries the optional outbound links of a post
type PostLinks struct {
	Thumbnail     string
	ShopeeLink    string
	TokpedLink    string
	ReferenceLink string
}

// NewPost creates a post. An empty slug is derived from the title.
func NewPost(title, slug string, doc Document, links PostLinks) (*Post, error) {
	p := &Post{BaseEntity: shared.NewBaseEntity()}
	if err := p.Update(title, slug, doc, links); err != nil {
		return nil, err
	}
	p.UpdatedAt = p.CreatedAt
	return p, nil
}

// Update replaces the post's fields
func (p *Post) Update(title, slug string, doc Document, links PostLinks) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot exceed 255 characters")
	}
	if strings.TrimSpace(slug) == "" {
		slug = title
	}
	slug = shared.Slugify(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug must contain at least one letter or digit")
	}

	p.Title = title
	p.Slug = slug
	p.Content = doc
	p.Thumbnail = optional(links.Thumbnail)
	p.ShopeeLink = optional(links.ShopeeLink)
	p.TokpedLink = optional(links.TokpedLink)
	p.ReferenceLink = optional(links.ReferenceLink)
	p.Touch()
	return nil
}

// Excerpt returns the first paragraph text of the post, truncated to n runes
func (p *Post) Excerpt(n int) string {
	for _, b := range p.Content.Blocks {
		if b.Type != "paragraph" {
			continue
		}
		var data struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(b.Data, &data); err != nil || data.Text == "" {
			continue
		}
		runes := []rune(stripTags(data.Text))
		if len(runes) > n {
			return string(runes[:n]) + "…"
		}
		return string(runes)
	}
	return ""
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
