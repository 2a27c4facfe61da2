// Package metrics exposes Prometheus collectors for the HTTP surface and the
// catalog write paths.
package metrics

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrefix is used when no metric prefix is configured
const DefaultPrefix = "jagopilih"

// Metrics holds the application's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PageCacheLookups    *prometheus.CounterVec
	CatalogOperations   *prometheus.CounterVec
	ImportRows          *prometheus.CounterVec
	ImageUploads        *prometheus.CounterVec
	LoginAttempts       *prometheus.CounterVec
}

// New registers all collectors under prefix on a fresh registry, together
// with the Go runtime and process collectors.
func New(prefix string) *Metrics {
	prefix = strings.TrimSuffix(prefix, "_")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		PageCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_page_cache_lookups_total",
				Help: "Storefront page cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
		CatalogOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_operations_total",
				Help: "Admin write operations by entity, operation and outcome",
			},
			[]string{"entity", "operation", "outcome"},
		),
		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_import_rows_total",
				Help: "Bulk import rows by result (created, failed)",
			},
			[]string{"result"},
		),
		ImageUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_image_uploads_total",
				Help: "Image uploads by outcome",
			},
			[]string{"outcome"},
		),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_login_attempts_total",
				Help: "Admin login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB exports the connection pool statistics of db labelled with
// dbName. Safe on a nil receiver.
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) error {
	if m == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome maps an error to the "success"/"error" outcome label
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveCatalog counts one admin write. Safe on a nil receiver.
func (m *Metrics) ObserveCatalog(entity, operation string, err error) {
	if m == nil {
		return
	}
	m.CatalogOperations.WithLabelValues(entity, operation, Outcome(err)).Inc()
}

// ObserveImport counts the rows of one bulk import. Safe on a nil receiver.
func (m *Metrics) ObserveImport(created, failed int) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues("created").Add(float64(created))
	m.ImportRows.WithLabelValues("failed").Add(float64(failed))
}

// ObserveUpload counts one image upload. Safe on a nil receiver.
func (m *Metrics) ObserveUpload(err error) {
	if m == nil {
		return
	}
	m.ImageUploads.WithLabelValues(Outcome(err)).Inc()
}

// ObserveLogin counts one login attempt. Safe on a nil receiver.
func (m *Metrics) ObserveLogin(err error) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(Outcome(err)).Inc()
}

// ObserveCacheLookup counts one page cache lookup. Safe on a nil receiver.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.PageCacheLookups.WithLabelValues(result).Inc()
}
