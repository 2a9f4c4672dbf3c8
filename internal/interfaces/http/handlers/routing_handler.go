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

// RoutingService is the subset of RoutingUsecase a handler needs.
type RoutingService interface {
	RouteMessage(ctx context.Context, req entities.RouteRequest) (*entities.PaymentRoutingResult, error)
}

// RoutingHandler exposes the routing engine over HTTP.
type RoutingHandler struct {
	routingUsecase RoutingService
}

// NewRoutingHandler creates a new routing handler.
func NewRoutingHandler(routingUsecase RoutingService) *RoutingHandler {
	return &RoutingHandler{routingUsecase: routingUsecase}
}

type routeRequestBody struct {
	PaymentType         string `json:"paymentType" binding:"required"`
	LocalInstrumentCode string `json:"localInstrumentCode"`
	MessageType         string `json:"messageType" binding:"required"`
	SourceBankCode      string `json:"sourceBankCode"`
	DestBankCode        string `json:"destBankCode"`
}

// Route resolves a payment instruction onto its clearing route.
// POST /api/v1/routing/route
func (h *RoutingHandler) Route(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var body routeRequestBody
	if err := h.bindRouteRequest(c, &body); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.routingUsecase.RouteMessage(c.Request.Context(), entities.RouteRequest{
		TenantID:            tenantID,
		PaymentType:         body.PaymentType,
		LocalInstrumentCode: body.LocalInstrumentCode,
		MessageType:         body.MessageType,
		SourceBankCode:      body.SourceBankCode,
		DestBankCode:        body.DestBankCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// bindRouteRequest accepts either a JSON body (POST) or query parameters
// (GET), matching the spec's GET/POST /routing/route surface.
func (h *RoutingHandler) bindRouteRequest(c *gin.Context, body *routeRequestBody) error {
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(body); err != nil {
			return domainerrors.BadRequest(err.Error())
		}
		return nil
	}

	body.PaymentType = c.Query("paymentType")
	body.LocalInstrumentCode = c.Query("localInstrumentCode")
	body.MessageType = c.Query("messageType")
	body.SourceBankCode = c.Query("sourceBankCode")
	body.DestBankCode = c.Query("destBankCode")
	if body.PaymentType == "" || body.MessageType == "" {
		return domainerrors.BadRequest("paymentType and messageType are required")
	}
	return nil
}
