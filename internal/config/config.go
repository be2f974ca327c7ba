// Package config provides configuration loading and validation for the
// sample application.
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// CollectorEndpointEnv selects the OTLP collector address for all
	// push-based exporters.
	CollectorEndpointEnv = "OTEL_COLLECTOR_ENDPOINT"

	// DefaultCollectorEndpoint is used when CollectorEndpointEnv is unset.
	DefaultCollectorEndpoint = "otel-collector:4317"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
	RateLimit     RateLimitConfig     `yaml:"rateLimit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int      `yaml:"port"`
	Address      string   `yaml:"address"`
	ReadTimeout  Duration `yaml:"readTimeout"`
	WriteTimeout Duration `yaml:"writeTimeout"`
	IdleTimeout  Duration `yaml:"idleTimeout"`
}

// ObservabilityConfig groups the telemetry pipeline settings.
type ObservabilityConfig struct {
	ServiceName    string         `yaml:"serviceName"`
	ServiceVersion string         `yaml:"serviceVersion"`
	Environment    string         `yaml:"environment"`
	Logging        LoggingConfig  `yaml:"logging"`
	Tracing        TracingConfig  `yaml:"tracing"`
	Metering       MeteringConfig `yaml:"metering"`
	Logs           LogsConfig     `yaml:"logs"`
}

// LoggingConfig holds local structured-logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracingConfig holds trace export settings.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Exporter   string  `yaml:"exporter"`
	Endpoint   string  `yaml:"endpoint"`
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sampleRate"`
}

// MeteringConfig holds push-based metric export settings.
type MeteringConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Endpoint       string   `yaml:"endpoint"`
	Insecure       bool     `yaml:"insecure"`
	ExportInterval Duration `yaml:"exportInterval"`
}

// LogsConfig holds push-based log export settings.
type LogsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// RateLimitConfig holds request rate limiting settings. Disabled by
// default; the sample surface imposes no limits unless configured.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			IdleTimeout:  Duration(120 * time.Second),
		},
		Observability: ObservabilityConfig{
			ServiceName:    "otel-sample-app",
			ServiceVersion: "1.0.0",
			Environment:    "production",
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			Tracing: TracingConfig{
				Enabled:    true,
				Exporter:   "otlp-grpc",
				Insecure:   true,
				SampleRate: 1.0,
			},
			Metering: MeteringConfig{
				Enabled:        true,
				Insecure:       true,
				ExportInterval: Duration(60 * time.Second),
			},
			Logs: LogsConfig{
				Enabled:  true,
				Insecure: true,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     100,
			Burst:   200,
		},
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig and resolves
// empty telemetry endpoints from the collector endpoint environment
// variable.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()

	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}

	obs := &c.Observability
	defObs := &def.Observability
	if obs.ServiceName == "" {
		obs.ServiceName = defObs.ServiceName
	}
	if obs.ServiceVersion == "" {
		obs.ServiceVersion = defObs.ServiceVersion
	}
	if obs.Environment == "" {
		obs.Environment = defObs.Environment
	}
	if obs.Logging.Level == "" {
		obs.Logging.Level = defObs.Logging.Level
	}
	if obs.Logging.Format == "" {
		obs.Logging.Format = defObs.Logging.Format
	}
	if obs.Logging.Output == "" {
		obs.Logging.Output = defObs.Logging.Output
	}
	if obs.Tracing.Exporter == "" {
		obs.Tracing.Exporter = defObs.Tracing.Exporter
	}
	if obs.Tracing.SampleRate == 0 {
		obs.Tracing.SampleRate = defObs.Tracing.SampleRate
	}
	if obs.Metering.ExportInterval == 0 {
		obs.Metering.ExportInterval = defObs.Metering.ExportInterval
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = def.RateLimit.RPS
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = def.RateLimit.Burst
	}

	collector := CollectorEndpoint()
	if obs.Tracing.Endpoint == "" {
		obs.Tracing.Endpoint = collector
	}
	if obs.Metering.Endpoint == "" {
		obs.Metering.Endpoint = collector
	}
	if obs.Logs.Endpoint == "" {
		obs.Logs.Endpoint = collector
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Observability.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("observability.logging.level must be one of debug, info, warn, error, got %q",
			c.Observability.Logging.Level)
	}

	switch c.Observability.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("observability.logging.format must be json or console, got %q",
			c.Observability.Logging.Format)
	}

	if c.Observability.Tracing.Enabled {
		switch c.Observability.Tracing.Exporter {
		case "otlp-grpc", "otlp-http":
		default:
			return fmt.Errorf("observability.tracing.exporter must be otlp-grpc or otlp-http, got %q",
				c.Observability.Tracing.Exporter)
		}
		if c.Observability.Tracing.SampleRate < 0 || c.Observability.Tracing.SampleRate > 1 {
			return fmt.Errorf("observability.tracing.sampleRate must be in [0, 1], got %f",
				c.Observability.Tracing.SampleRate)
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rateLimit.rps must be positive, got %f", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rateLimit.burst must be positive, got %d", c.RateLimit.Burst)
		}
	}

	return nil
}

// CollectorEndpoint returns the OTLP collector endpoint from the
// environment, or the well-known default.
func CollectorEndpoint() string {
	if v := os.Getenv(CollectorEndpointEnv); v != "" {
		return v
	}
	return DefaultCollectorEndpoint
}
