package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// CollectorURL is host:port of an OTLP/HTTP collector. Empty disables export.
	CollectorURL  string
	Insecure      bool
	EnableTracing bool
	EnableMetrics bool
	SamplingRatio float64
}

// Provider owns the SDK providers installed as otel globals.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// NewProvider installs tracer and meter providers exporting over OTLP/HTTP.
// With no collector configured it returns an empty Provider and leaves the
// otel no-op globals in place.
func NewProvider(ctx context.Context, c Config) (*Provider, error) {
	p := &Provider{}
	if c.CollectorURL == "" || (!c.EnableTracing && !c.EnableMetrics) {
		return p, nil
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.ServiceName),
			semconv.ServiceVersionKey.String(c.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(c.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if c.EnableTracing {
		if p.TracerProvider, err = initTracing(ctx, res, c); err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		otel.SetTracerProvider(p.TracerProvider)
	}
	if c.EnableMetrics {
		if p.MeterProvider, err = initMetrics(ctx, res, c); err != nil {
			return nil, fmt.Errorf("init metrics: %w", err)
		}
		otel.SetMeterProvider(p.MeterProvider)
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

func initTracing(ctx context.Context, res *resource.Resource, c Config) (*trace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(c.CollectorURL),
		otlptracehttp.WithURLPath("/v1/traces"),
	}
	if c.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exp, trace.WithBatchTimeout(5*time.Second), trace.WithMaxExportBatchSize(512)),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(c.SamplingRatio))),
	), nil
}

func initMetrics(ctx context.Context, res *resource.Resource, c Config) (*metric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(c.CollectorURL),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if c.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, metric.WithInterval(30*time.Second))),
	), nil
}

// Shutdown flushes pending spans and metrics.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ConfigFromEnv reads the standard OTEL_* variables. The collector endpoint
// may be given with or without an http(s) scheme.
func ConfigFromEnv(serviceName string) Config {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	insecure := !strings.HasPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	return Config{
		ServiceName:    envOr("OTEL_SERVICE_NAME", serviceName),
		ServiceVersion: envOr("OTEL_SERVICE_VERSION", "dev"),
		Environment:    envOr("OTEL_ENVIRONMENT", "development"),
		CollectorURL:   strings.TrimRight(endpoint, "/"),
		Insecure:       insecure,
		EnableTracing:  envOr("OTEL_ENABLE_TRACING", "true") == "true",
		EnableMetrics:  envOr("OTEL_ENABLE_METRICS", "true") == "true",
		SamplingRatio:  parseRatio(os.Getenv("OTEL_SAMPLING_RATIO")),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseRatio(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return 1
	}
	return f
}
