package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "otel-sample-app", cfg.Observability.ServiceName)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.True(t, cfg.Observability.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Observability.Tracing.SampleRate)
	assert.True(t, cfg.Observability.Metering.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Observability.Metering.ExportInterval.Duration())
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "otel-sample-app", cfg.Observability.ServiceName)
	assert.Equal(t, "otlp-grpc", cfg.Observability.Tracing.Exporter)
	assert.Equal(t, 100.0, cfg.RateLimit.RPS)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Observability.ServiceName = "custom"
	cfg.ApplyDefaults()

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom", cfg.Observability.ServiceName)
}

func TestApplyDefaults_CollectorEndpoint(t *testing.T) {
	t.Run("default endpoint", func(t *testing.T) {
		cfg := &Config{}
		cfg.ApplyDefaults()

		assert.Equal(t, DefaultCollectorEndpoint, cfg.Observability.Tracing.Endpoint)
		assert.Equal(t, DefaultCollectorEndpoint, cfg.Observability.Metering.Endpoint)
		assert.Equal(t, DefaultCollectorEndpoint, cfg.Observability.Logs.Endpoint)
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv(CollectorEndpointEnv, "collector.example.com:4317")

		cfg := &Config{}
		cfg.ApplyDefaults()

		assert.Equal(t, "collector.example.com:4317", cfg.Observability.Tracing.Endpoint)
		assert.Equal(t, "collector.example.com:4317", cfg.Observability.Metering.Endpoint)
		assert.Equal(t, "collector.example.com:4317", cfg.Observability.Logs.Endpoint)
	})

	t.Run("explicit endpoint wins", func(t *testing.T) {
		t.Setenv(CollectorEndpointEnv, "collector.example.com:4317")

		cfg := &Config{}
		cfg.Observability.Tracing.Endpoint = "other:4317"
		cfg.ApplyDefaults()

		assert.Equal(t, "other:4317", cfg.Observability.Tracing.Endpoint)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Observability.Logging.Level = "trace" },
			wantErr: "logging.level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Observability.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "invalid tracing exporter",
			mutate:  func(c *Config) { c.Observability.Tracing.Exporter = "jaeger" },
			wantErr: "tracing.exporter",
		},
		{
			name:    "sample rate out of range",
			mutate:  func(c *Config) { c.Observability.Tracing.SampleRate = 1.5 },
			wantErr: "sampleRate",
		},
		{
			name: "rate limit without rps",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.RPS = -1
			},
			wantErr: "rateLimit.rps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCollectorEndpoint(t *testing.T) {
	assert.Equal(t, DefaultCollectorEndpoint, CollectorEndpoint())

	t.Setenv(CollectorEndpointEnv, "localhost:4317")
	assert.Equal(t, "localhost:4317", CollectorEndpoint())
}
