package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/cache"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/logger"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheHeader reports whether a storefront response came from the page cache
const CacheHeader = "X-Cache"

// PageCacheConfig configures CachePage
type PageCacheConfig struct {
	Cache   cache.PageCache
	TTL     time.Duration
	Metrics *metrics.Metrics
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from the page cache, keyed by request URI.
// Only 200 responses are stored, each under the given tags so a revalidation
// of any tag drops it. A response is not stored when one of its tags was
// revalidated while it rendered. Cache failures never fail the request.
func CachePage(cfg PageCacheConfig, tags ...string) gin.HandlerFunc {
	if cfg.Cache == nil || cfg.TTL <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "GET " + c.Request.URL.RequestURI()
		log := logger.GetGinLogger(c)

		body, hit, err := cfg.Cache.Get(ctx, key)
		if err != nil {
			log.Warn("Page cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		cfg.Metrics.ObserveCacheLookup(hit)
		if hit {
			c.Header(CacheHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		gen, err := cfg.Cache.Generation(ctx, tags)
		if err != nil {
			log.Warn("Page cache generation lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK || rec.body.Len() == 0 {
			return
		}
		stored, err := cfg.Cache.SetIfCurrent(ctx, key, rec.body.Bytes(), tags, cfg.TTL, gen)
		if err != nil {
			log.Warn("Page cache store failed", zap.String("key", key), zap.Error(err))
			return
		}
		if !stored {
			log.Debug("Page revalidated while rendering, not cached", zap.String("key", key))
		}
	}
}
