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

// UETRService is the subset of UETRUsecase a handler needs.
type UETRService interface {
	Generate(messageType, systemID string) (string, error)
	ValidateFormat(uetr string) bool
	GetJourney(ctx context.Context, uetr string) ([]*entities.TrackingRecord, error)
	Statistics(ctx context.Context, tenantID string) (*entities.UETRStatistics, error)
}

// UETRHandler exposes UETR generation, validation, and journey lookup.
type UETRHandler struct {
	uetrUsecase UETRService
}

// NewUETRHandler creates a new UETR handler.
func NewUETRHandler(uetrUsecase UETRService) *UETRHandler {
	return &UETRHandler{uetrUsecase: uetrUsecase}
}

type generateUETRRequest struct {
	MessageType string `json:"messageType" binding:"required"`
	SystemID    string `json:"systemId" binding:"required"`
}

// Generate creates a new UETR for a message type.
// POST /api/v1/uetr/generate
func (h *UETRHandler) Generate(c *gin.Context) {
	var req generateUETRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	uetr, err := h.uetrUsecase.Generate(req.MessageType, req.SystemID)
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"uetr": uetr})
}

// Track reports a UETR's structural validity.
// GET /api/v1/uetr/track/:uetr
func (h *UETRHandler) Track(c *gin.Context) {
	uetr := c.Param("uetr")
	response.Success(c, http.StatusOK, gin.H{
		"uetr":  uetr,
		"valid": h.uetrUsecase.ValidateFormat(uetr),
	})
}

// Journey returns a UETR's full tracking record history.
// GET /api/v1/uetr/journey/:uetr
func (h *UETRHandler) Journey(c *gin.Context) {
	uetr := c.Param("uetr")
	if !h.uetrUsecase.ValidateFormat(uetr) {
		response.Error(c, domainerrors.BadRequest("malformed UETR"))
		return
	}

	journey, err := h.uetrUsecase.GetJourney(c.Request.Context(), uetr)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"journey": journey})
}

// Validate reports whether a UETR is structurally well-formed.
// GET /api/v1/uetr/validate/:uetr
func (h *UETRHandler) Validate(c *gin.Context) {
	uetr := c.Param("uetr")
	response.Success(c, http.StatusOK, gin.H{"valid": h.uetrUsecase.ValidateFormat(uetr)})
}

// Statistics summarizes the caller's tenant's UETR population.
// GET /api/v1/uetr/statistics
func (h *UETRHandler) Statistics(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	stats, err := h.uetrUsecase.Statistics(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
