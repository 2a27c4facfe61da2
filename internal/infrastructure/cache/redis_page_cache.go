package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "jagopilih:cache:"

// RedisPageCache implements PageCache using Redis.
// Pages live under <prefix>page:<key>; each tag is a set of page keys under
// <prefix>tag:<tag>. Invalidation counters live under <prefix>gen:<tag> and
// <prefix>gen, and survive a full clear. All instances share the same entries.
type RedisPageCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPageCache creates a page cache on an existing client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisPageCache(client *redis.Client, keyPrefix string) *RedisPageCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisPageCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisPageCache) pageKey(key string) string {
	return c.keyPrefix + "page:" + key
}

func (c *RedisPageCache) tagKey(tag string) string {
	return c.keyPrefix + "tag:" + tag
}

func (c *RedisPageCache) genKeys(tags []string) []string {
	keys := make([]string, 0, len(tags)+1)
	keys = append(keys, c.keyPrefix+"gen")
	for _, tag := range tags {
		keys = append(keys, c.keyPrefix+"gen:"+tag)
	}
	return keys
}

// Get returns the cached body for key
func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, c.pageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached page: %w", err)
	}
	return body, true, nil
}

// Set stores body under key and indexes it by tag
func (c *RedisPageCache) Set(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c.queueSet(ctx, pipe, key, body, tags, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

func (c *RedisPageCache) queueSet(ctx context.Context, pipe redis.Pipeliner, key string, body []byte, tags []string, ttl time.Duration) {
	pageKey := c.pageKey(key)
	pipe.Set(ctx, pageKey, body, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, c.tagKey(tag), pageKey)
		pipe.Expire(ctx, c.tagKey(tag), ttl)
	}
}

// Generation sums the invalidation counters of tags and of the whole cache
func (c *RedisPageCache) Generation(ctx context.Context, tags []string) (uint64, error) {
	vals, err := c.client.MGet(ctx, c.genKeys(tags)...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return sumGenerations(vals), nil
}

// SetIfCurrent stores body under WATCH on the generation counters, so an
// invalidation racing the write aborts it
func (c *RedisPageCache) SetIfCurrent(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration, gen uint64) (bool, error) {
	keys := c.genKeys(tags)
	stored := false
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}
		if sumGenerations(vals) != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			c.queueSet(ctx, pipe, key, body, tags, ttl)
			return nil
		})
		stored = err == nil
		return err
	}, keys...)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to cache page: %w", err)
	}
	return stored, nil
}

func sumGenerations(vals []any) uint64 {
	var sum uint64
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(str, 10, 64)
		if err == nil {
			sum += n
		}
	}
	return sum
}

// Invalidate drops every page carrying one of tags, or every page without tags
func (c *RedisPageCache) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return c.invalidateAll(ctx)
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range c.genKeys(tags)[1:] {
			pipe.Incr(ctx, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}

	for _, tag := range tags {
		tagKey := c.tagKey(tag)
		keys, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return fmt.Errorf("failed to read tag %s: %w", tag, err)
		}
		if err := c.client.Del(ctx, append(keys, tagKey)...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
		}
	}
	return nil
}

func (c *RedisPageCache) invalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.keyPrefix+"gen").Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	for _, pattern := range []string{c.keyPrefix + "page:*", c.keyPrefix + "tag:*"} {
		if err := c.deleteMatching(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

func (c *RedisPageCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to clear page cache: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan page cache: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to clear page cache: %w", err)
		}
	}
	return nil
}

// Close is a no-op; the client belongs to the caller
func (c *RedisPageCache) Close() error {
	return nil
}

// Ensure RedisPageCache implements PageCache
var _ PageCache = (*RedisPageCache)(nil)
