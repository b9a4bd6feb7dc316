// Package otel builds the OpenTelemetry providers of the storefront API: traces for otelhttp and
// otelgrpc, metrics, and the log records that carry storefront events.
package otel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// ServiceName is the resource service name of the API server.
const ServiceName = "mithai-api"

const defaultMetricInterval = 10 * time.Second

// Config selects where and how telemetry is exported.
type Config struct {
	// Endpoint is the OTLP gRPC collector, as host:port or a URL. Any path is dropped. Empty disables export.
	Endpoint string
	// Insecure forces plaintext even for https endpoints (OTEL_EXPORTER_OTLP_INSECURE).
	Insecure    bool
	ServiceName string
	// Environment is recorded as deployment.environment.name when set.
	Environment string
	// MetricInterval defaults to 10s.
	MetricInterval time.Duration
}

// Providers holds the three providers. Call Shutdown once on exit to flush them.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider

	closers []func(context.Context) error
}

// NewProviders returns providers exporting to cfg.Endpoint, or non-exporting providers when it is empty.
func NewProviders(ctx context.Context, cfg Config) (*Providers, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return &Providers{
			TracerProvider: sdktrace.NewTracerProvider(),
			MeterProvider:  metric.NewMeterProvider(),
			LoggerProvider: sdklog.NewLoggerProvider(),
		}, nil
	}
	target, plaintext, err := collectorTarget(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	plaintext = plaintext || cfg.Insecure

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	p := &Providers{}
	if err := p.startTraces(ctx, target, plaintext, res); err != nil {
		return nil, err
	}
	if err := p.startMetrics(ctx, target, plaintext, res, cfg.MetricInterval); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if err := p.startLogs(ctx, target, plaintext, res); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	return p, nil
}

// collectorTarget reduces endpoint to the host:port dialled by the OTLP gRPC exporters. Plaintext is
// used for everything but https.
func collectorTarget(endpoint string) (target string, plaintext bool, err error) {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("otel: endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("otel: endpoint %q: missing host", endpoint)
	}
	return u.Host, u.Scheme != "https", nil
}

func newResource(cfg Config) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = ServiceName
	}
	attrs := []attribute.KeyValue{semconv.ServiceNameKey.String(name)}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentNameKey.String(cfg.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
}

func (p *Providers) startTraces(ctx context.Context, target string, plaintext bool, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(target)}
	if plaintext {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("otel: trace exporter: %w", err)
	}
	p.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	p.closers = append(p.closers, p.TracerProvider.Shutdown)
	return nil
}

func (p *Providers) startMetrics(ctx context.Context, target string, plaintext bool, res *resource.Resource, interval time.Duration) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(target)}
	if plaintext {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("otel: metric exporter: %w", err)
	}
	if interval <= 0 {
		interval = defaultMetricInterval
	}
	p.MeterProvider = metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, metric.WithInterval(interval))),
	)
	p.closers = append(p.closers, p.MeterProvider.Shutdown)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, target string, plaintext bool, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(target)}
	if plaintext {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exp, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("otel: log exporter: %w", err)
	}
	p.LoggerProvider = sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)), sdklog.WithResource(res))
	p.closers = append(p.closers, p.LoggerProvider.Shutdown)
	return nil
}

// Shutdown flushes and stops the exporting providers, newest first, and joins their errors.
// Non-exporting providers have nothing to flush.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

// SetGlobal installs the tracer and meter providers for otelhttp and otelgrpc. The logger provider
// is passed explicitly to NewEventEmitter instead.
func (p *Providers) SetGlobal() {
	if p.TracerProvider != nil {
		otel.SetTracerProvider(p.TracerProvider)
	}
	if p.MeterProvider != nil {
		otel.SetMeterProvider(p.MeterProvider)
	}
}
