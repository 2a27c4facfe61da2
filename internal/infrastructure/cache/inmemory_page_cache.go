package cache

import (
	"context"
	"sync"
	"time"
)

// pageEntry represents a cached page with expiration
type pageEntry struct {
	body      []byte
	tags      []string
	expiresAt time.Time
}

// InMemoryPageCache implements PageCache using an in-memory map.
// This is suitable for single-instance deployments and testing; with several
// instances pair it with a RedisRevalidationBus so writes reach every copy.
type InMemoryPageCache struct {
	mu        sync.RWMutex
	entries   map[string]pageEntry
	byTag     map[string]map[string]struct{}
	tagGen    map[string]uint64
	allGen    uint64
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryPageCache creates a new in-memory page cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryPageCache() *InMemoryPageCache {
	c := newInMemoryPageCache(time.Now)

	c.wg.Add(1)
	go c.cleanupLoop(time.Minute)

	return c
}

func newInMemoryPageCache(now func() time.Time) *InMemoryPageCache {
	return &InMemoryPageCache{
		entries:  make(map[string]pageEntry),
		byTag:    make(map[string]map[string]struct{}),
		tagGen:   make(map[string]uint64),
		now:      now,
		stopChan: make(chan struct{}),
	}
}

// Get returns the cached body for key if present and not expired
func (c *InMemoryPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.body, true, nil
}

// Set stores body under key
func (c *InMemoryPageCache) Set(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(key, body, tags, ttl)
	return nil
}

// Generation sums the invalidation counters of tags and of the whole cache
func (c *InMemoryPageCache) Generation(ctx context.Context, tags []string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generationLocked(tags), nil
}

// SetIfCurrent stores body only while the generation of tags is still gen
func (c *InMemoryPageCache) SetIfCurrent(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration, gen uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generationLocked(tags) != gen {
		return false, nil
	}
	c.setLocked(key, body, tags, ttl)
	return true, nil
}

func (c *InMemoryPageCache) generationLocked(tags []string) uint64 {
	gen := c.allGen
	for _, tag := range tags {
		gen += c.tagGen[tag]
	}
	return gen
}

// setLocked replaces key. c.mu must be held.
func (c *InMemoryPageCache) setLocked(key string, body []byte, tags []string, ttl time.Duration) {
	c.removeLocked(key)
	c.entries[key] = pageEntry{
		body:      append([]byte(nil), body...),
		tags:      append([]string(nil), tags...),
		expiresAt: c.now().Add(ttl),
	}
	for _, tag := range tags {
		if c.byTag[tag] == nil {
			c.byTag[tag] = make(map[string]struct{})
		}
		c.byTag[tag][key] = struct{}{}
	}
}

// Invalidate drops entries carrying any of tags, or everything without tags
func (c *InMemoryPageCache) Invalidate(ctx context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(tags) == 0 {
		c.allGen++
		c.entries = make(map[string]pageEntry)
		c.byTag = make(map[string]map[string]struct{})
		return nil
	}

	for _, tag := range tags {
		c.tagGen[tag]++
		for key := range c.byTag[tag] {
			c.removeLocked(key)
		}
		delete(c.byTag, tag)
	}
	return nil
}

// removeLocked deletes key and its tag index entries. c.mu must be held.
func (c *InMemoryPageCache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, tag := range e.tags {
		if keys := c.byTag[tag]; keys != nil {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *InMemoryPageCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryPageCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemoryPageCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			c.removeLocked(key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryPageCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryPageCache implements PageCache
var _ PageCache = (*InMemoryPageCache)(nil)
