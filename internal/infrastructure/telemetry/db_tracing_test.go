package telemetry

import (
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestNewDBTracingPlugin_RequiresBothFlags(t *testing.T) {
	logger := zaptest.NewLogger(t)

	assert.False(t, NewDBTracingPlugin(config.TelemetryConfig{Enabled: true}, logger).enabled)
	assert.False(t, NewDBTracingPlugin(config.TelemetryConfig{DBTraceEnabled: true}, logger).enabled)
	assert.True(t, NewDBTracingPlugin(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}, logger).enabled)
}

func TestDBTracingPlugin_RegisterDisabled(t *testing.T) {
	db := openSQLite(t)
	p := NewDBTracingPlugin(config.TelemetryConfig{}, zaptest.NewLogger(t))

	require.NoError(t, p.Register(db))
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
}

func TestDBTracingPlugin_RegisterEnabled(t *testing.T) {
	setupInMemoryTracing(t)
	db := openSQLite(t)
	p := NewDBTracingPlugin(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}, zaptest.NewLogger(t))

	require.NoError(t, p.Register(db))
	assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))

	var n int
	require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
}
