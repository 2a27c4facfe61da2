// Package telemetry wires OpenTelemetry tracing for the HTTP server, the
// application services and gorm, and optionally ships zap logs over OTLP.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// TracerProvider owns the global OpenTelemetry provider. A disabled provider
// has no SDK behind it and every method is a no-op.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
}

// ProviderOption adds resource attributes to the exported spans
type ProviderOption func(*[]attribute.KeyValue)

// WithServiceVersion tags spans with the build version
func WithServiceVersion(version string) ProviderOption {
	return func(attrs *[]attribute.KeyValue) {
		*attrs = append(*attrs, semconv.ServiceVersion(version))
	}
}

// WithEnvironment tags spans with the deployment environment, e.g. "production"
func WithEnvironment(env string) ProviderOption {
	return func(attrs *[]attribute.KeyValue) {
		*attrs = append(*attrs, semconv.DeploymentEnvironmentName(env))
	}
}

// NewTracerProvider exports spans in batches to the OTLP gRPC collector of
// cfg and installs the provider globally. It returns a disabled provider
// when telemetry is off.
func NewTracerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger, opts ...ProviderOption) (*TracerProvider, error) {
	if !cfg.Enabled {
		logger.Info("Tracing disabled")
		return &TracerProvider{logger: logger}, nil
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return installProvider(cfg, logger, sdktrace.WithBatcher(exporter), opts...)
}

// installProvider builds the SDK provider around processor. Tests pass a
// synchronous in-memory exporter.
func installProvider(cfg config.TelemetryConfig, logger *zap.Logger, processor sdktrace.TracerProviderOption, opts ...ProviderOption) (*TracerProvider, error) {
	res, err := newResource(cfg, opts)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(samplerFor(cfg.SamplingRatio))),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing enabled",
		zap.String("service_name", cfg.ServiceName),
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
	return &TracerProvider{provider: provider, logger: logger}, nil
}

// newResource describes this process to the collector. Traces and logs share it.
func newResource(cfg config.TelemetryConfig, opts []ProviderOption) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	for _, opt := range opts {
		opt(&attrs)
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

// IsEnabled reports whether spans are exported
func (tp *TracerProvider) IsEnabled() bool {
	return tp.provider != nil
}

// Shutdown flushes pending spans and stops the exporter
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := tp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	tp.logger.Info("Tracing stopped")
	return nil
}
