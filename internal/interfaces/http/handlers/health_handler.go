package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes a plain liveness endpoint, independent of the
// self-healing monitor's per-tenant target health.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

const serviceVersion = "0.1.0"

// Check reports process liveness.
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "iso20022-orchestrator",
		"version": serviceVersion,
	})
}
