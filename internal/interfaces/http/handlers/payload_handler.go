package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/response"
)

// PayloadService is the subset of PayloadUsecase a handler needs.
type PayloadService interface {
	Transform(ctx context.Context, endpointConfigID, mappingName string, direction entities.MappingDirection, source map[string]interface{}) (map[string]interface{}, entities.ValidationResult, error)
}

// PayloadHandler exposes the payload transformer over HTTP.
type PayloadHandler struct {
	payloadUsecase PayloadService
}

// NewPayloadHandler creates a new payload handler.
func NewPayloadHandler(payloadUsecase PayloadService) *PayloadHandler {
	return &PayloadHandler{payloadUsecase: payloadUsecase}
}

type transformPayloadRequest struct {
	EndpointConfigID string                      `json:"endpointConfigId" binding:"required"`
	MappingName      string                      `json:"mappingName" binding:"required"`
	Direction        entities.MappingDirection   `json:"direction" binding:"required"`
	Source           map[string]interface{}      `json:"source" binding:"required"`
}

// Transform applies a schema mapping to a source payload.
// POST /api/v1/payload/transform
func (h *PayloadHandler) Transform(c *gin.Context) {
	var req transformPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	target, validation, err := h.payloadUsecase.Transform(c.Request.Context(), req.EndpointConfigID, req.MappingName, req.Direction, req.Source)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"target": target, "validation": validation})
}
