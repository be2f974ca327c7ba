// Package observability wires the telemetry pipelines of the sample
// application: structured logging, OTLP trace export, OTLP push
// metrics, and OTLP log export.
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/otelsample/internal/config"
	"github.com/vyrodovalexey/otelsample/internal/observability/logging"
	"github.com/vyrodovalexey/otelsample/internal/observability/metering"
	"github.com/vyrodovalexey/otelsample/internal/observability/tracing"
)

// Observability manages all telemetry components.
type Observability struct {
	config *config.ObservabilityConfig

	logger          *logging.Logger
	logProvider     *logging.OTLPProvider
	tracingProvider *tracing.Provider
	meterProvider   *metering.Provider
}

// New creates a new Observability instance.
func New(cfg *config.ObservabilityConfig) *Observability {
	return &Observability{config: cfg}
}

// Start initializes all telemetry components. The log export pipeline
// is brought up first so that the logger can tee into it; tracing and
// metering follow.
func (o *Observability) Start(ctx context.Context) error {
	if o.config.Logs.Enabled {
		o.logProvider = logging.NewOTLPProvider(&logging.OTLPConfig{
			ServiceName:    o.config.ServiceName,
			ServiceVersion: o.config.ServiceVersion,
			Environment:    o.config.Environment,
			Endpoint:       o.config.Logs.Endpoint,
			Insecure:       o.config.Logs.Insecure,
			BatchTimeout:   time.Second,
		})
		if err := o.logProvider.Start(ctx); err != nil {
			return fmt.Errorf("failed to initialize log export: %w", err)
		}
	}

	if err := o.initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	o.logger.Info("initializing observability",
		zap.String("service", o.config.ServiceName),
		zap.String("version", o.config.ServiceVersion),
		zap.String("environment", o.config.Environment),
	)

	if o.config.Tracing.Enabled {
		o.tracingProvider = tracing.NewProvider(&tracing.Config{
			ServiceName:    o.config.ServiceName,
			ServiceVersion: o.config.ServiceVersion,
			Environment:    o.config.Environment,
			ExporterType:   tracing.ExporterType(o.config.Tracing.Exporter),
			Endpoint:       o.config.Tracing.Endpoint,
			Insecure:       o.config.Tracing.Insecure,
			SampleRate:     o.config.Tracing.SampleRate,
			BatchTimeout:   5 * time.Second,
		}, o.logger.Logger)
		if err := o.tracingProvider.Start(ctx); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if o.config.Metering.Enabled {
		o.meterProvider = metering.NewProvider(&metering.Config{
			ServiceName:    o.config.ServiceName,
			ServiceVersion: o.config.ServiceVersion,
			Environment:    o.config.Environment,
			Endpoint:       o.config.Metering.Endpoint,
			Insecure:       o.config.Metering.Insecure,
			ExportInterval: o.config.Metering.ExportInterval.Duration(),
		}, o.logger.Logger)
		if err := o.meterProvider.Start(ctx); err != nil {
			return fmt.Errorf("failed to initialize metering: %w", err)
		}
	}

	o.logger.Info("observability initialized successfully")
	return nil
}

// Stop shuts down all telemetry components, flushing pending batches.
func (o *Observability) Stop(ctx context.Context) error {
	if o.logger != nil {
		o.logger.Info("stopping observability")
	}

	var errs []error

	if o.meterProvider != nil {
		if err := o.meterProvider.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop metric provider: %w", err))
		}
	}

	if o.tracingProvider != nil {
		if err := o.tracingProvider.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop tracing provider: %w", err))
		}
	}

	if o.logProvider != nil {
		if err := o.logProvider.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop log export: %w", err))
		}
	}

	if o.logger != nil {
		if err := o.logger.Sync(); err != nil {
			// Sync errors on stdout/stderr are expected on some platforms.
			if o.config.Logging.Output != "stdout" && o.config.Logging.Output != "stderr" && o.config.Logging.Output != "" {
				errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}

// initLogging builds the zap logger, teeing into the OTLP log pipeline
// when it is enabled.
func (o *Observability) initLogging() error {
	logConfig := &logging.Config{
		Level:  logging.Level(o.config.Logging.Level),
		Format: logging.Format(o.config.Logging.Format),
		Output: o.config.Logging.Output,
		InitialFields: map[string]interface{}{
			"service":     o.config.ServiceName,
			"version":     o.config.ServiceVersion,
			"environment": o.config.Environment,
		},
	}

	if o.logProvider != nil {
		logConfig.OTelCore = o.logProvider.Core(o.config.ServiceName)
	}

	logger, err := logging.NewLogger(logConfig)
	if err != nil {
		return err
	}

	o.logger = logger
	return nil
}

// Logger returns the logger.
func (o *Observability) Logger() *logging.Logger {
	return o.logger
}

// TracingProvider returns the tracing provider, nil when tracing is
// disabled.
func (o *Observability) TracingProvider() *tracing.Provider {
	return o.tracingProvider
}

// Instruments returns the push-metric instruments, nil when metering is
// disabled.
func (o *Observability) Instruments() *metering.Instruments {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Instruments()
}

// SetLogLevel adjusts the logger level at runtime. Used by the config
// watcher.
func (o *Observability) SetLogLevel(level string) {
	if o.logger != nil {
		o.logger.SetLevel(logging.Level(level))
	}
}
