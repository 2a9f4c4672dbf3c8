package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/middleware"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/response"
)

// FraudService is the subset of FraudUsecase a handler needs.
type FraudService interface {
	GetByTransactionReference(ctx context.Context, transactionReference string) (*entities.FraudRiskAssessment, error)
	ListAssessments(ctx context.Context, tenantID string) ([]*entities.FraudRiskAssessment, error)
	CreateConfiguration(ctx context.Context, cfg *entities.FraudRiskConfiguration) error
}

// FraudHandler exposes fraud/risk configuration and assessment lookup.
type FraudHandler struct {
	fraudUsecase FraudService
}

// NewFraudHandler creates a new fraud handler.
func NewFraudHandler(fraudUsecase FraudService) *FraudHandler {
	return &FraudHandler{fraudUsecase: fraudUsecase}
}

// CreateConfiguration persists a new fraud/risk configuration for the
// caller's tenant.
// POST /api/v1/fraud/configurations
func (h *FraudHandler) CreateConfiguration(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var cfg entities.FraudRiskConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	cfg.TenantID = tenantID
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	if err := h.fraudUsecase.CreateConfiguration(c.Request.Context(), &cfg); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, cfg)
}

// ListAssessments returns every fraud assessment recorded for the caller's
// tenant, or a single assessment when transactionReference is given.
// GET /api/v1/fraud/assessments
func (h *FraudHandler) ListAssessments(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	if ref := c.Query("transactionReference"); ref != "" {
		assessment, err := h.fraudUsecase.GetByTransactionReference(c.Request.Context(), ref)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, assessment)
		return
	}

	assessments, err := h.fraudUsecase.ListAssessments(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessments": assessments})
}
