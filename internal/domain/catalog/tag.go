package catalog

import (
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
)

// Tag is a free-form label attached to many products
type Tag struct {
	shared.BaseEntity
	Name string
	Slug string
}

// NewTag creates a tag whose slug is derived from the name
func NewTag(name string) (*Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug("", name)
	if err != nil {
		return nil, err
	}
	return &Tag{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}, nil
}

// Update renames the tag and re-derives its slug
func (t *Tag) Update(name string) error {
	if err := validateTagName(name); err != nil {
		return err
	}
	slug, err := resolveSlug("", name)
	if err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.Slug = slug
	t.Touch()
	return nil
}

func validateTagName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tag name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Tag name cannot exceed 50 characters")
	}
	return nil
}
