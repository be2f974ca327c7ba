package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/otelsample/internal/metrics"
	"github.com/vyrodovalexey/otelsample/internal/observability/metering"
)

// Metrics returns a middleware that records each request twice: into
// the injected Prometheus store (scraped via /metrics) and into the
// OTel push instruments (exported to the collector). instruments may be
// nil when the push pipeline is disabled.
func Metrics(store *metrics.Metrics, instruments *metering.Instruments) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		store.IncrementActiveRequests(method)

		c.Next()

		store.DecrementActiveRequests(method)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		duration := time.Since(start)

		store.RecordRequest(method, route, c.Writer.Status(), duration)

		if instruments != nil {
			instruments.Record(c.Request.Context(), method, route, duration.Seconds())
		}
	}
}
