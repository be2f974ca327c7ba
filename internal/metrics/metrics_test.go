package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findMetric returns the metric family with the given name, or nil.
func findMetric(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestNew_RegistersCollectors(t *testing.T) {
	m := New("sample")

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}

	// Application metrics with label dimensions only appear after the
	// first observation; the start time gauge and runtime collectors
	// are present immediately.
	assert.True(t, names["sample_start_time_seconds"])
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["process_start_time_seconds"])
}

func TestNew_EmptyNamespaceDefaults(t *testing.T) {
	m := New("")
	m.RecordRequest("GET", "/api/users", http.StatusOK, 10*time.Millisecond)

	assert.NotNil(t, findMetric(t, m, "sample_requests_total"))
}

func TestRecordRequest(t *testing.T) {
	m := New("sample")

	m.RecordRequest("GET", "/api/users", http.StatusOK, 25*time.Millisecond)
	m.RecordRequest("GET", "/api/users", http.StatusOK, 35*time.Millisecond)
	m.RecordRequest("GET", "/api/users/:id", http.StatusNotFound, 5*time.Millisecond)

	counter := findMetric(t, m, "sample_requests_total")
	require.NotNil(t, counter)

	var total float64
	for _, metric := range counter.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)

	histogram := findMetric(t, m, "sample_request_duration_seconds")
	require.NotNil(t, histogram)

	var count uint64
	for _, metric := range histogram.GetMetric() {
		count += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), count)
}

func TestRecordRequest_StatusLabel(t *testing.T) {
	m := New("sample")
	m.RecordRequest("GET", "/api/error", http.StatusInternalServerError, time.Millisecond)

	counter := findMetric(t, m, "sample_requests_total")
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)

	labels := make(map[string]string)
	for _, pair := range counter.GetMetric()[0].GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	assert.Equal(t, "GET", labels["method"])
	assert.Equal(t, "/api/error", labels["route"])
	assert.Equal(t, "500", labels["status"])
}

func TestActiveRequests(t *testing.T) {
	m := New("sample")

	m.IncrementActiveRequests("GET")
	m.IncrementActiveRequests("GET")
	m.DecrementActiveRequests("GET")

	gauge := findMetric(t, m, "sample_active_requests")
	require.NotNil(t, gauge)
	require.Len(t, gauge.GetMetric(), 1)
	assert.Equal(t, 1.0, gauge.GetMetric()[0].GetGauge().GetValue())
}

func TestRecordRateLimitHit(t *testing.T) {
	m := New("sample")

	m.RecordRateLimitHit("/api/users")
	m.RecordRateLimitHit("/api/users")

	counter := findMetric(t, m, "sample_rate_limit_hits_total")
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)
	assert.Equal(t, 2.0, counter.GetMetric()[0].GetCounter().GetValue())
}

func TestSetBuildInfo(t *testing.T) {
	m := New("sample")
	m.SetBuildInfo("1.0.0", "abc1234", "2026-01-01T00:00:00Z")

	gauge := findMetric(t, m, "sample_build_info")
	require.NotNil(t, gauge)
	require.Len(t, gauge.GetMetric(), 1)
	assert.Equal(t, 1.0, gauge.GetMetric()[0].GetGauge().GetValue())
}

func TestHandler_Exposition(t *testing.T) {
	m := New("sample")
	m.RecordRequest("GET", "/", http.StatusOK, 10*time.Millisecond)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "sample_requests_total")
	assert.Contains(t, body, "sample_request_duration_seconds")
	assert.Contains(t, body, "sample_start_time_seconds")
}

func TestSeparateRegistries(t *testing.T) {
	a := New("sample")
	b := New("sample")

	a.RecordRequest("GET", "/", http.StatusOK, time.Millisecond)

	assert.NotNil(t, findMetric(t, a, "sample_requests_total"))
	assert.Nil(t, findMetric(t, b, "sample_requests_total"))
}
