// Package handler adapts HTTP requests onto the contact and health services.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contactsapi/src/core/usecase"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	health *usecase.HealthService
}

func NewHealthHandler(health *usecase.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health is the liveness probe; it never touches the store.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DetailedHealth is the readiness probe. A failing store ping yields 503 with
// the per-component report.
// GET /health/detailed
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	report := h.health.Check(c.Request.Context())
	if report.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
