// Package middleware provides the gin middleware of the storefront and admin API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists what cross-origin callers may do. "*" in AllowOrigins
// allows any origin but never with credentials.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig allows no origin until one is configured
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID", "Accept", "Origin", "Cache-Control"},
		ExposeHeaders:    []string{RequestIDHeader, CacheHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

type corsPolicy struct {
	origins     map[string]struct{}
	anyOrigin   bool
	credentials bool
	headers     map[string]string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(cfg.AllowOrigins)), headers: map[string]string{}}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			p.anyOrigin = true
		}
		p.origins[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	p.credentials = cfg.AllowCredentials && !p.anyOrigin

	p.headers["Access-Control-Allow-Methods"] = strings.Join(cfg.AllowMethods, ", ")
	p.headers["Access-Control-Allow-Headers"] = strings.Join(cfg.AllowHeaders, ", ")
	if len(cfg.ExposeHeaders) > 0 {
		p.headers["Access-Control-Expose-Headers"] = strings.Join(cfg.ExposeHeaders, ", ")
	}
	if cfg.MaxAge > 0 {
		p.headers["Access-Control-Max-Age"] = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}
	return p
}

func (p corsPolicy) allow(origin string) (string, bool) {
	if origin == "" {
		return "", false
	}
	if p.anyOrigin {
		return "*", true
	}
	_, ok := p.origins[origin]
	return origin, ok
}

// CORSWithConfig answers preflight requests with 204 and adds the CORS
// headers to responses for allowed origins.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if allowed, ok := policy.allow(c.GetHeader("Origin")); ok {
			h.Set("Access-Control-Allow-Origin", allowed)
			if policy.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			for k, v := range policy.headers {
				h.Set(k, v)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
