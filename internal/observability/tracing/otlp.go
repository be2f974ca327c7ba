// Package tracing provides OpenTelemetry tracing for the sample
// application.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ExporterType defines the type of trace exporter.
type ExporterType string

const (
	// ExporterOTLPGRPC exports traces via OTLP over gRPC.
	ExporterOTLPGRPC ExporterType = "otlp-grpc"
	// ExporterOTLPHTTP exports traces via OTLP over HTTP.
	ExporterOTLPHTTP ExporterType = "otlp-http"
)

// Config holds configuration for the tracing provider.
type Config struct {
	// ServiceName is the name of the service.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment is the deployment environment.
	Environment string

	// ExporterType is the type of exporter to use.
	ExporterType ExporterType

	// Endpoint is the OTLP collector endpoint.
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64

	// BatchTimeout is the maximum time to wait before exporting a batch.
	BatchTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "otel-sample-app",
		ServiceVersion: "1.0.0",
		Environment:    "production",
		ExporterType:   ExporterOTLPGRPC,
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
		BatchTimeout:   5 * time.Second,
	}
}

// Provider manages the OpenTelemetry trace provider.
type Provider struct {
	config         *Config
	tracerProvider *sdktrace.TracerProvider
	logger         *zap.Logger
}

// NewProvider creates a new tracing provider.
func NewProvider(config *Config, logger *zap.Logger) *Provider {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Provider{
		config: config,
		logger: logger,
	}
}

// Start initializes and starts the tracing provider. It installs the
// global tracer provider and W3C propagators.
func (p *Provider) Start(ctx context.Context) error {
	res, err := p.createResource(ctx)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := p.createExporter(ctx)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(
		exporter,
		sdktrace.WithBatchTimeout(p.config.BatchTimeout),
	)

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithSampler(p.createSampler()),
	)

	otel.SetTracerProvider(p.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.logger.Info("tracing provider started",
		zap.String("service", p.config.ServiceName),
		zap.String("exporter", string(p.config.ExporterType)),
		zap.String("endpoint", p.config.Endpoint),
		zap.Float64("sampleRate", p.config.SampleRate),
	)

	return nil
}

// Stop shuts down the tracing provider, flushing pending spans.
func (p *Provider) Stop(ctx context.Context) error {
	if p.tracerProvider == nil {
		return nil
	}

	p.logger.Info("stopping tracing provider")
	return p.tracerProvider.Shutdown(ctx)
}

// Tracer returns a tracer with the given name.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return p.tracerProvider.Tracer(name)
}

// createResource creates the OpenTelemetry resource.
func (p *Provider) createResource(ctx context.Context) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(p.config.ServiceName),
		semconv.ServiceVersion(p.config.ServiceVersion),
		semconv.DeploymentEnvironment(p.config.Environment),
	}

	return resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
	)
}

// createExporter creates the trace exporter.
func (p *Provider) createExporter(ctx context.Context) (*otlptrace.Exporter, error) {
	switch p.config.ExporterType {
	case ExporterOTLPHTTP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	}
}

// createSampler creates the trace sampler.
func (p *Provider) createSampler() sdktrace.Sampler {
	if p.config.SampleRate <= 0 {
		return sdktrace.NeverSample()
	}
	if p.config.SampleRate >= 1.0 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.TraceIDRatioBased(p.config.SampleRate)
}
