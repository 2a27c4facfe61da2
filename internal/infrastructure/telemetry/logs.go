package telemetry

import (
	"context"
	"fmt"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogExporter forwards zap entries to the OTLP collector next to the normal
// log output. A nil or disabled exporter leaves loggers unchanged.
type LogExporter struct {
	provider *sdklog.LoggerProvider
	scope    string
}

// NewLogExporter batches log records to the collector of cfg. It returns a
// disabled exporter unless both telemetry and log export are on.
func NewLogExporter(ctx context.Context, cfg config.TelemetryConfig, opts ...ProviderOption) (*LogExporter, error) {
	if !cfg.Enabled || !cfg.LogsEnabled {
		return &LogExporter{}, nil
	}

	exporterOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("otlp log exporter: %w", err)
	}
	return newLogExporter(sdklog.NewBatchProcessor(exporter), cfg, opts...)
}

func newLogExporter(processor sdklog.Processor, cfg config.TelemetryConfig, opts ...ProviderOption) (*LogExporter, error) {
	res, err := newResource(cfg, opts)
	if err != nil {
		return nil, err
	}
	provider := sdklog.NewLoggerProvider(sdklog.WithResource(res), sdklog.WithProcessor(processor))
	global.SetLoggerProvider(provider)
	return &LogExporter{provider: provider, scope: cfg.ServiceName}, nil
}

func (e *LogExporter) IsEnabled() bool {
	return e != nil && e.provider != nil
}

// Attach returns l writing to the collector as well, for entries at level
// and above. Records carry the trace context of the entry's context field.
func (e *LogExporter) Attach(l *zap.Logger, level zapcore.Level) (*zap.Logger, error) {
	if !e.IsEnabled() {
		return l, nil
	}
	bridge, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(e.scope, otelzap.WithLoggerProvider(e.provider)), level)
	if err != nil {
		return nil, fmt.Errorf("otel log core: %w", err)
	}
	return l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, bridge)
	})), nil
}

// Shutdown flushes buffered records
func (e *LogExporter) Shutdown(ctx context.Context) error {
	if !e.IsEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown log exporter: %w", err)
	}
	return nil
}
