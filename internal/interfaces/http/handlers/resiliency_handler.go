package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/middleware"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/response"
)

// ResiliencyService is the subset of MonitorUsecase a handler needs.
type ResiliencyService interface {
	PerformHealthChecks(ctx context.Context, tenantID string) ([]*entities.TargetHealth, error)
	RecoverService(ctx context.Context, name, tenantID string) (*entities.TargetHealth, error)
	ProcessQueuedMessagesForService(ctx context.Context, name, tenantID string) (int, error)
	ResetCircuitBreaker(ctx context.Context, name, tenantID string) error
}

// ResiliencyHandler exposes the self-healing monitor's operational surface.
type ResiliencyHandler struct {
	monitorUsecase ResiliencyService
}

// NewResiliencyHandler creates a new resiliency handler.
func NewResiliencyHandler(monitorUsecase ResiliencyService) *ResiliencyHandler {
	return &ResiliencyHandler{monitorUsecase: monitorUsecase}
}

// Health returns the current health of every target configured for the
// caller's tenant.
// GET /api/v1/resiliency/health
func (h *ResiliencyHandler) Health(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	health, err := h.monitorUsecase.PerformHealthChecks(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"targets": health})
}

type reprocessQueuedMessagesRequest struct {
	TargetName string `json:"targetName" binding:"required"`
}

// ReprocessQueuedMessages drains queued messages for a named target.
// POST /api/v1/resiliency/queued-messages/reprocess
func (h *ResiliencyHandler) ReprocessQueuedMessages(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var req reprocessQueuedMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	delivered, err := h.monitorUsecase.ProcessQueuedMessagesForService(c.Request.Context(), req.TargetName, tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"delivered": delivered})
}

type triggerRecoveryRequest struct {
	TargetName string `json:"targetName" binding:"required"`
}

// TriggerRecovery forces the recovery sequence (circuit reset + queue drain)
// for a target, independent of the automatic health-driven trigger.
// POST /api/v1/resiliency/recovery/trigger
func (h *ResiliencyHandler) TriggerRecovery(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var req triggerRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	health, err := h.monitorUsecase.RecoverService(c.Request.Context(), req.TargetName, tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, health)
}

type resetCircuitBreakerRequest struct {
	TargetName string `json:"targetName" binding:"required"`
}

// ResetCircuitBreaker forces a target's breaker back to CLOSED.
// POST /api/v1/resiliency/circuit-breaker/reset
func (h *ResiliencyHandler) ResetCircuitBreaker(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var req resetCircuitBreakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.monitorUsecase.ResetCircuitBreaker(c.Request.Context(), req.TargetName, tenantID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"targetName": req.TargetName, "reset": true})
}
