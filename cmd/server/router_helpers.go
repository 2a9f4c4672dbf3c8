package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/handlers"
)

// applyCORSMiddleware reflects the caller's Origin back as the allowed origin
// and short-circuits preflight OPTIONS requests, matching the teacher's
// browser-facing CORS shape (no admin front-end ships with this service, but
// tenant integrators' own dashboards still call the API directly from a
// browser).
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Idempotency-Key")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// registerHealthRoute exposes a plain liveness endpoint ahead of the
// versioned API group, independent of tenant auth.
func registerHealthRoute(r *gin.Engine, h *handlers.HealthHandler) {
	r.GET("/health", h.Check)
}
