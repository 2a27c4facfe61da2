package telemetry

import (
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func TestStartProfiler_Disabled(t *testing.T) {
	p, err := StartProfiler(config.ProfilingConfig{}, "jagopilih", nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestStartProfiler_UnknownType(t *testing.T) {
	_, err := StartProfiler(config.ProfilingConfig{
		Enabled:       true,
		ServerAddress: "http://pyroscope:4040",
		ProfileTypes:  []string{"cpu", "heap"},
	}, "jagopilih", nil, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, `unknown profile type "heap"`)
}

func TestProfileTypes(t *testing.T) {
	types, err := profileTypes([]string{"cpu", "inuse_space", "goroutines"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace, pyroscope.ProfileGoroutines,
	}, types)
}

func TestLinkProfiles(t *testing.T) {
	var disabled *TracerProvider
	disabled.linkProfiles()

	tp, err := installProvider(config.TelemetryConfig{Enabled: true, ServiceName: "jagopilih-test", SamplingRatio: 1},
		zaptest.NewLogger(t), sdktrace.WithSyncer(tracetest.NewInMemoryExporter()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	tp.linkProfiles()
	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, isSDK)
}
