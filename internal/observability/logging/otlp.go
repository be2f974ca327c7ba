package logging

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap/zapcore"
)

// OTLPConfig holds configuration for the push-based log pipeline.
type OTLPConfig struct {
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

	// BatchTimeout is the maximum time to wait before exporting a batch.
	BatchTimeout time.Duration
}

// DefaultOTLPConfig returns an OTLPConfig with default values.
func DefaultOTLPConfig() *OTLPConfig {
	return &OTLPConfig{
		ServiceName:    "otel-sample-app",
		ServiceVersion: "1.0.0",
		Environment:    "production",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		BatchTimeout:   time.Second,
	}
}

// OTLPProvider manages the OpenTelemetry logger provider that backs the
// zap bridge core.
type OTLPProvider struct {
	config         *OTLPConfig
	loggerProvider *sdklog.LoggerProvider
}

// NewOTLPProvider creates a new log export provider.
func NewOTLPProvider(config *OTLPConfig) *OTLPProvider {
	if config == nil {
		config = DefaultOTLPConfig()
	}
	return &OTLPProvider{config: config}
}

// Start initializes the exporter and installs the global logger
// provider.
func (p *OTLPProvider) Start(ctx context.Context) error {
	res, err := p.createResource(ctx)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(p.config.Endpoint),
	}
	if p.config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create log exporter: %w", err)
	}

	processor := sdklog.NewBatchProcessor(
		exporter,
		sdklog.WithExportInterval(p.config.BatchTimeout),
	)

	p.loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(processor),
	)

	global.SetLoggerProvider(p.loggerProvider)

	return nil
}

// Stop flushes and shuts down the logger provider.
func (p *OTLPProvider) Stop(ctx context.Context) error {
	if p.loggerProvider == nil {
		return nil
	}
	return p.loggerProvider.Shutdown(ctx)
}

// Core returns a zapcore.Core that exports records through the OTLP
// pipeline. It must be called after Start.
func (p *OTLPProvider) Core(name string) zapcore.Core {
	return otelzap.NewCore(name, otelzap.WithLoggerProvider(p.loggerProvider))
}

// createResource creates the OpenTelemetry resource.
func (p *OTLPProvider) createResource(ctx context.Context) (*resource.Resource, error) {
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
