package catalog

import (
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
)

// Category groups products on the storefront
type Category struct {
	shared.BaseEntity
	Name string
	Slug string
}

// NewCategory creates a category whose slug is derived from the name
func NewCategory(name string) (*Category, error) {
	return NewCategoryWithSlug(name, "")
}

// NewCategoryWithSlug creates a category with an explicit slug.
// An empty slug is derived from the name.
func NewCategoryWithSlug(name, slug string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}, nil
}

// Update renames the category and re-derives its slug
func (c *Category) Update(name, slug string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Slug = slug
	c.Touch()
	return nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
