package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	tp, err := NewTracerProvider(ctx, config.TelemetryConfig{Enabled: false, ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(2).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), samplerFor(0.5).Description())
}

func setupInMemoryTracing(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	cfg := config.TelemetryConfig{Enabled: true, ServiceName: "jagopilih-test", SamplingRatio: 1}

	tp, err := installProvider(cfg, zaptest.NewLogger(t), sdktrace.WithSyncer(exporter),
		WithServiceVersion("1.4.0"), WithEnvironment("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.True(t, tp.IsEnabled())
	return exporter
}

func TestStartServiceSpan_RecordsAttributes(t *testing.T) {
	exporter := setupInMemoryTracing(t)

	ctx, span := StartServiceSpan(context.Background(), "product", "create",
		Slug("iphone-15"), LinkCount(3))
	assert.NotEmpty(t, GetTraceID(ctx))
	span.SetAttributes(ImageCount(2))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "product.create", spans[0].Name)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "iphone-15", attrs["jagopilih.slug"])
	assert.Equal(t, "3", attrs["jagopilih.link_count"])
	assert.Equal(t, "2", attrs["jagopilih.image_count"])

	res := map[string]string{}
	for _, kv := range spans[0].Resource.Attributes() {
		res[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "jagopilih-test", res["service.name"])
	assert.Equal(t, "1.4.0", res["service.version"])
	assert.Equal(t, "test", res["deployment.environment.name"])
}

func TestRecordError(t *testing.T) {
	exporter := setupInMemoryTracing(t)

	_, span := StartServiceSpan(context.Background(), "import", "run")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
}

func TestImportRows(t *testing.T) {
	attrs := ImportRows(10, 8, 2)
	require.Len(t, attrs, 3)
	assert.Equal(t, "jagopilih.import.rows_total", string(attrs[0].Key))
	assert.Equal(t, int64(2), attrs[2].Value.AsInt64())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}
