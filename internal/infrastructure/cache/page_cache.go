// Package cache provides the storefront page cache and the revalidation
// signal that clears it after admin writes.
package cache

import (
	"context"
	"time"
)

// PageCache stores rendered storefront responses keyed by request URI.
// Every entry carries tags so a write can drop exactly the pages it affects.
type PageCache interface {
	// Get returns the cached body for key
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores body under key with the given tags and TTL
	Set(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration) error

	// Generation returns a counter that grows whenever one of tags, or the
	// whole cache, is invalidated
	Generation(ctx context.Context, tags []string) (uint64, error)

	// SetIfCurrent stores body like Set unless one of tags was invalidated
	// after gen was read. It reports whether the body was stored.
	SetIfCurrent(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration, gen uint64) (bool, error)

	// Invalidate drops every entry carrying one of tags; no tags drops everything
	Invalidate(ctx context.Context, tags ...string) error

	// Close releases resources held by the cache
	Close() error
}
