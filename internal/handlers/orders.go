package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/otelsample/internal/observability/tracing"
)

// Order id range returned by CreateOrder, inclusive.
const (
	minOrderID = 1000
	maxOrderID = 9999
)

// CreateOrder handles GET /api/orders. It demonstrates a span tree:
// one parent span with three sequential child spans, one per simulated
// order processing step.
func (h *Handler) CreateOrder(c *gin.Context) {
	h.logger.Info("creating new order")

	ctx, span := tracing.StartSpan(c.Request.Context(), "create-order")
	defer span.End()

	_, validateSpan := tracing.StartSpan(ctx, "validate-order")
	h.sleepUniform(0.02, 0.05)
	h.logger.Debug("order validated")
	validateSpan.End()

	_, paymentSpan := tracing.StartSpan(ctx, "process-payment")
	h.sleepUniform(0.1, 0.2)
	h.logger.Debug("payment processed")
	paymentSpan.End()

	_, inventorySpan := tracing.StartSpan(ctx, "update-inventory")
	h.sleepUniform(0.03, 0.08)
	h.logger.Debug("inventory updated")
	inventorySpan.End()

	orderID := h.randInt(minOrderID, maxOrderID)
	span.SetAttributes(attribute.Int("order.id", orderID))

	h.logger.Info("order created successfully", zap.Int("orderID", orderID))
	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"status":   "created",
	})
}
