package metering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "otel-sample-app", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 60*time.Second, cfg.ExportInterval)
}

func TestProvider_StopWithoutStart(t *testing.T) {
	p := NewProvider(nil, nil)
	assert.NoError(t, p.Stop(context.Background()))
	assert.Nil(t, p.Instruments())
}

func TestInstruments_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	instruments, err := NewInstruments(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	instruments.Record(ctx, "GET", "/api/users", 0.05)
	instruments.Record(ctx, "GET", "/api/users", 0.10)
	instruments.Record(ctx, "POST", "/api/orders", 0.20)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	metricsByName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		metricsByName[m.Name] = m
	}

	counter, ok := metricsByName["app.requests.total"]
	require.True(t, ok, "expected app.requests.total to be recorded")
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)

	histogram, ok := metricsByName["app.request.duration"]
	require.True(t, ok, "expected app.request.duration to be recorded")
	assert.Equal(t, "s", histogram.Unit)
	hist, ok := histogram.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}
