// Package metering provides the push-based OpenTelemetry metric
// pipeline for the sample application.
package metering

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
)

// Config holds configuration for the metric provider.
type Config struct {
	// ServiceName is the name of the service.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment is the deployment environment.
	Environment string

	// Endpoint is the OTLP collector endpoint.
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// ExportInterval is the periodic reader export interval.
	ExportInterval time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "otel-sample-app",
		ServiceVersion: "1.0.0",
		Environment:    "production",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		ExportInterval: 60 * time.Second,
	}
}

// Provider manages the OpenTelemetry meter provider and the application
// instruments recorded by the instrumentation middleware.
type Provider struct {
	config        *Config
	meterProvider *sdkmetric.MeterProvider
	logger        *zap.Logger

	instruments *Instruments
}

// Instruments holds the application-level OTel instruments.
type Instruments struct {
	// RequestsTotal counts requests received, by method and route.
	RequestsTotal metric.Int64Counter

	// RequestDuration measures request duration in seconds, by route.
	RequestDuration metric.Float64Histogram
}

// NewProvider creates a new metric provider.
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

// Start initializes the exporter, installs the global meter provider,
// and creates the application instruments.
func (p *Provider) Start(ctx context.Context) error {
	res, err := p.createResource(ctx)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(p.config.Endpoint),
	}
	if p.config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(p.config.ExportInterval),
	)

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	otel.SetMeterProvider(p.meterProvider)

	instruments, err := NewInstruments(p.meterProvider.Meter(p.config.ServiceName))
	if err != nil {
		return err
	}
	p.instruments = instruments

	p.logger.Info("metric provider started",
		zap.String("service", p.config.ServiceName),
		zap.String("endpoint", p.config.Endpoint),
		zap.Duration("exportInterval", p.config.ExportInterval),
	)

	return nil
}

// Stop flushes and shuts down the meter provider.
func (p *Provider) Stop(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}

	p.logger.Info("stopping metric provider")
	return p.meterProvider.Shutdown(ctx)
}

// Instruments returns the application instruments. It returns nil
// before Start has been called.
func (p *Provider) Instruments() *Instruments {
	return p.instruments
}

// NewInstruments creates the application instruments on the given
// meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	requestsTotal, err := meter.Int64Counter(
		"app.requests.total",
		metric.WithDescription("Total requests received"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram(
		"app.request.duration",
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Instruments{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
	}, nil
}

// Record records one completed request on both instruments.
func (i *Instruments) Record(ctx context.Context, method, route string, durationSeconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	)
	i.RequestsTotal.Add(ctx, 1, attrs)
	i.RequestDuration.Record(ctx, durationSeconds, attrs)
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
