// Package handlers implements the HTTP endpoints of the sample
// application. Every handler simulates work with a random sleep and
// emits spans and logs; none of them touches persistent state.
package handlers

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/otelsample/internal/observability/tracing"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "otel-sample-app"

// simulatedErrorMessage is the deterministic error surfaced by the
// error endpoint.
const simulatedErrorMessage = "This is a simulated error for testing"

// Handler holds the dependencies of the route handlers. Sleeping and
// randomness are injectable so tests run without real delays.
type Handler struct {
	logger    *zap.Logger
	sleep     func(time.Duration)
	randFloat func(min, max float64) float64
	randInt   func(min, max int) int
}

// Option configures a Handler.
type Option func(*Handler)

// WithSleep replaces the sleep function.
func WithSleep(sleep func(time.Duration)) Option {
	return func(h *Handler) {
		h.sleep = sleep
	}
}

// WithRandFloat replaces the uniform float source.
func WithRandFloat(f func(min, max float64) float64) Option {
	return func(h *Handler) {
		h.randFloat = f
	}
}

// WithRandInt replaces the uniform int source.
func WithRandInt(f func(min, max int) int) Option {
	return func(h *Handler) {
		h.randInt = f
	}
}

// New creates a Handler.
func New(logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		logger: logger,
		sleep:  time.Sleep,
		randFloat: func(min, max float64) float64 {
			return min + rand.Float64()*(max-min)
		},
		randInt: func(min, max int) int {
			return min + rand.IntN(max-min+1)
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// sleepUniform sleeps a uniformly random duration between min and max
// seconds and returns the chosen delay in seconds.
func (h *Handler) sleepUniform(min, max float64) float64 {
	delay := h.randFloat(min, max)
	h.sleep(time.Duration(delay * float64(time.Second)))
	return delay
}

// Hello handles GET /.
func (h *Handler) Hello(c *gin.Context) {
	h.logger.Info("processing request at / endpoint")

	_, span := tracing.StartSpan(c.Request.Context(), "hello-span",
		attribute.String("custom.attribute", "hello-world"),
	)
	defer span.End()

	h.sleepUniform(0.1, 0.3)

	h.logger.Info("successfully processed / request")
	c.JSON(http.StatusOK, gin.H{
		"message": "Hello from OTel Sample App!",
		"status":  "success",
	})
}

// TriggerError handles GET /api/error. The failure is an explicit
// error value: it is logged, recorded on the span, and surfaced as
// HTTP 500.
func (h *Handler) TriggerError(c *gin.Context) {
	h.logger.Error("simulating an error scenario")

	_, span := tracing.StartSpan(c.Request.Context(), "error-endpoint",
		attribute.Bool("error", true),
		attribute.String("error.type", "SimulatedError"),
	)
	defer span.End()

	err := errors.New(simulatedErrorMessage)
	tracing.SetSpanError(span, err)
	h.logger.Error("an error occurred", zap.Error(err))

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Slow handles GET /api/slow.
func (h *Handler) Slow(c *gin.Context) {
	h.logger.Info("processing slow request")

	_, span := tracing.StartSpan(c.Request.Context(), "slow-endpoint")
	defer span.End()

	delay := h.randFloat(1, 3)
	span.SetAttributes(attribute.Float64("delay.seconds", delay))
	h.logger.Info("simulating slow operation",
		zap.Float64("delaySeconds", delay),
	)

	h.sleep(time.Duration(delay * float64(time.Second)))

	h.logger.Info("slow operation completed")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow operation completed",
		"delay":   delay,
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
