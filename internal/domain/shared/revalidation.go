package shared

import "context"

// Cache tags name groups of storefront pages that a write makes stale
const (
	CacheTagProducts   = "products"
	CacheTagCategories = "categories"
	CacheTagTags       = "tags"
	CacheTagPosts      = "posts"
	CacheTagNavbar     = "navbar"
	CacheTagSettings   = "settings"
)

// Revalidator is notified after every successful write so cached storefront
// pages can be dropped. Implementations never fail the caller; errors are
// logged on their side. Calling it without tags drops every cached page.
type Revalidator interface {
	Revalidate(ctx context.Context, tags ...string)
}

// NopRevalidator ignores revalidation signals
type NopRevalidator struct{}

// Revalidate does nothing
func (NopRevalidator) Revalidate(context.Context, ...string) {}
