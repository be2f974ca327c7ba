package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/otelsample/internal/observability/tracing"
)

// maxUserID is the highest user id the synthesized directory knows
// about; anything above it is a not-found.
const maxUserID = 10

// User is the synthesized user payload.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(c *gin.Context) {
	h.logger.Info("fetching users list")

	_, span := tracing.StartSpan(c.Request.Context(), "get-users",
		attribute.Int("users.count", 3),
	)
	defer span.End()

	// Simulate a database query.
	h.sleepUniform(0.05, 0.15)

	users := []User{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Charlie"},
	}

	h.logger.Info("retrieved users", zap.Int("count", len(users)))
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /api/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	idParam := c.Param("id")
	h.logger.Info("fetching user", zap.String("id", idParam))

	_, span := tracing.StartSpan(c.Request.Context(), "get-user-by-id")
	defer span.End()

	// Simulate a database lookup.
	h.sleepUniform(0.05, 0.2)

	userID, err := strconv.Atoi(idParam)
	if err != nil || userID > maxUserID {
		h.logger.Warn("user not found", zap.String("id", idParam))
		span.SetAttributes(attribute.Bool("error", true))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	span.SetAttributes(attribute.Int("user.id", userID))

	user := User{
		ID:    userID,
		Name:  fmt.Sprintf("User%d", userID),
		Email: fmt.Sprintf("user%d@example.com", userID),
	}

	h.logger.Info("retrieved user", zap.String("name", user.Name))
	c.JSON(http.StatusOK, gin.H{"user": user})
}
