package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the server span middleware. Requests to
// SkipPaths, e.g. the health probe, get no span.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	SkipPaths   []string
}

// TracingWithConfig starts a server span per request through otelgin. Span
// names are "METHOD route", e.g. "GET /api/v1/products/:slug".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, skipped := skip[r.URL.Path]
		return !skipped
	}))
}

// SpanDecorator runs after the handler and adds the request ID, the signed
// in admin and the page cache result to the server span. Responses of 400
// and above mark the span as failed. Register it after TracingWithConfig.
func SpanDecorator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		var attrs []attribute.KeyValue
		if id := GetRequestID(c); id != "" {
			attrs = append(attrs, attribute.String("request_id", id))
		}
		if session := GetSession(c); session != nil {
			attrs = append(attrs, attribute.String("admin_id", session.AdminID.String()))
		}
		if result := c.Writer.Header().Get(CacheHeader); result != "" {
			attrs = append(attrs, attribute.String("page_cache", result))
		}
		span.SetAttributes(attrs...)

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetAttributes(attribute.Int("http.status_code", status))
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
