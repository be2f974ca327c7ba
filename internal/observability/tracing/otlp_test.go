package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "otel-sample-app", cfg.ServiceName)
	assert.Equal(t, ExporterOTLPGRPC, cfg.ExporterType)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
}

func TestNewProvider_NilConfigUsesDefaults(t *testing.T) {
	p := NewProvider(nil, nil)
	require.NotNil(t, p)
	assert.Equal(t, "otel-sample-app", p.config.ServiceName)
}

func TestProvider_StartStop(t *testing.T) {
	// The gRPC exporter dials lazily, so Start succeeds without a
	// collector listening.
	p := NewProvider(&Config{
		ServiceName:    "test-service",
		ServiceVersion: "0.1.0",
		Environment:    "test",
		ExporterType:   ExporterOTLPGRPC,
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
		BatchTimeout:   time.Second,
	}, nil)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))

	tracer := p.Tracer("test")
	_, span := tracer.Start(ctx, "test-span")
	span.End()

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	// Shutdown flushes to a collector that is not there; the flush
	// error is acceptable, a hang is not.
	_ = p.Stop(stopCtx)
}

func TestProvider_StopWithoutStart(t *testing.T) {
	p := NewProvider(nil, nil)
	assert.NoError(t, p.Stop(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		want       sdktrace.Sampler
	}{
		{"never", 0.0, sdktrace.NeverSample()},
		{"always", 1.0, sdktrace.AlwaysSample()},
		{"above one", 1.5, sdktrace.AlwaysSample()},
		{"ratio", 0.5, sdktrace.TraceIDRatioBased(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(&Config{SampleRate: tt.sampleRate}, nil)
			assert.Equal(t, tt.want.Description(), p.createSampler().Description())
		})
	}
}
