package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/otelsample/internal/metrics"
)

// RateLimit returns a middleware enforcing a process-wide token bucket.
// Rejections answer 429 and are counted in the metrics store.
func RateLimit(rps float64, burst int, store *metrics.Metrics) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			if store != nil {
				store.RecordRateLimitHit(route)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too Many Requests",
			})
			return
		}
		c.Next()
	}
}
