package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/middleware"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/response"
	"github.com/paynet/iso20022-orchestrator/internal/usecases"
)

// OrchestrationService is the subset of OrchestratorUsecase a handler needs.
type OrchestrationService interface {
	ProcessPayment(ctx context.Context, req usecases.PaymentRequest) (*usecases.PaymentResult, error)
}

// OrchestrationHandler exposes the debit/credit orchestrator over HTTP.
type OrchestrationHandler struct {
	orchestratorUsecase OrchestrationService
}

// NewOrchestrationHandler creates a new orchestration handler.
func NewOrchestrationHandler(orchestratorUsecase OrchestrationService) *OrchestrationHandler {
	return &OrchestrationHandler{orchestratorUsecase: orchestratorUsecase}
}

type processPaymentRequest struct {
	TransactionReference string               `json:"transactionReference" binding:"required"`
	FromAccount          string               `json:"fromAccount" binding:"required"`
	ToAccount            string               `json:"toAccount" binding:"required"`
	Amount               float64              `json:"amount" binding:"required,gt=0"`
	Currency             string               `json:"currency" binding:"required"`
	PaymentType          string               `json:"paymentType" binding:"required"`
	LocalInstrumentCode  string               `json:"localInstrumentCode"`
	MessageType          string               `json:"messageType" binding:"required"`
	SourceBankCode       string               `json:"sourceBankCode"`
	DestBankCode         string               `json:"destBankCode"`
	PaymentData          entities.PaymentData `json:"paymentData"`
}

// ProcessPayment submits a payment instruction through the full
// fraud/routing/debit/credit pipeline.
// POST /api/v1/orchestration/payments
func (h *OrchestrationHandler) ProcessPayment(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.orchestratorUsecase.ProcessPayment(c.Request.Context(), usecases.PaymentRequest{
		TransactionReference: req.TransactionReference,
		TenantID:             tenantID,
		FromAccount:          req.FromAccount,
		ToAccount:            req.ToAccount,
		Amount:               req.Amount,
		Currency:             req.Currency,
		PaymentType:          req.PaymentType,
		LocalInstrumentCode:  req.LocalInstrumentCode,
		MessageType:          req.MessageType,
		SourceBankCode:       req.SourceBankCode,
		DestBankCode:         req.DestBankCode,
		PaymentData:          req.PaymentData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == usecases.OrchestrationRepaired || result.Status == usecases.OrchestrationSuspended {
		status = http.StatusAccepted
	}
	response.Success(c, status, result)
}
