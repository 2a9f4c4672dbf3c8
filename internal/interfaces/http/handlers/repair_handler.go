package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/middleware"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/response"
	"github.com/paynet/iso20022-orchestrator/pkg/utils"
)

// RepairService is the subset of RepairUsecase a handler needs.
type RepairService interface {
	Create(ctx context.Context, repair *entities.TransactionRepair) error
	Assign(ctx context.Context, id, assignee string) (*entities.TransactionRepair, error)
	List(ctx context.Context, filter entities.RepairFilter) ([]*entities.TransactionRepair, error)
	Statistics(ctx context.Context, tenantID string) (*entities.RepairStatistics, error)
	Resolve(ctx context.Context, id, actor, notes string) (*entities.TransactionRepair, error)
	ApplyCorrectiveAction(ctx context.Context, id string, action entities.CorrectiveAction, details, actor string) (*entities.TransactionRepair, error)
}

// RepairHandler exposes transaction repair queue management over HTTP.
type RepairHandler struct {
	repairUsecase RepairService
}

// NewRepairHandler creates a new repair handler.
func NewRepairHandler(repairUsecase RepairService) *RepairHandler {
	return &RepairHandler{repairUsecase: repairUsecase}
}

type createRepairRequest struct {
	TransactionReference string             `json:"transactionReference" binding:"required"`
	RepairType           entities.RepairType `json:"repairType" binding:"required"`
	FromAccount          string             `json:"fromAccount"`
	ToAccount            string             `json:"toAccount"`
	Amount               float64            `json:"amount"`
	Currency             string             `json:"currency"`
	Priority             int                `json:"priority"`
}

// Create opens a new repair record directly (outside the orchestrator's
// automatic creation path), for manually-flagged corrective work.
// POST /api/v1/repairs
func (h *RepairHandler) Create(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	var req createRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	repair := &entities.TransactionRepair{
		TransactionReference: req.TransactionReference,
		TenantID:             tenantID,
		RepairType:           req.RepairType,
		FromAccount:          req.FromAccount,
		ToAccount:            req.ToAccount,
		Amount:               req.Amount,
		Currency:             req.Currency,
		Priority:             req.Priority,
	}
	if err := h.repairUsecase.Create(c.Request.Context(), repair); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, repair)
}

// List returns repairs for the caller's tenant, optionally narrowed by
// status/type/high-priority query parameters, paginated.
// GET /api/v1/repairs
func (h *RepairHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	filter := entities.RepairFilter{
		TenantID:     tenantID,
		RepairStatus: entities.RepairStatus(c.Query("status")),
		RepairType:   entities.RepairType(c.Query("type")),
		HighPriority: c.Query("highPriority") == "true",
	}

	repairs, err := h.repairUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)
	meta := utils.CalculateMeta(int64(len(repairs)), params.Page, params.Limit)

	pageItems := repairs
	if params.Limit > 0 {
		offset := params.CalculateOffset()
		if offset > len(repairs) {
			offset = len(repairs)
		}
		end := offset + params.Limit
		if end > len(repairs) {
			end = len(repairs)
		}
		pageItems = repairs[offset:end]
	}

	response.Success(c, http.StatusOK, gin.H{"repairs": pageItems, "pagination": meta})
}

type assignRepairRequest struct {
	Assignee string `json:"assignee" binding:"required"`
}

// Assign assigns a repair to an operator.
// POST /api/v1/repairs/:id/assign
func (h *RepairHandler) Assign(c *gin.Context) {
	id := c.Param("id")
	var req assignRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	repair, err := h.repairUsecase.Assign(c.Request.Context(), id, req.Assignee)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, repair)
}

type correctiveActionRequest struct {
	Action  entities.CorrectiveAction `json:"action" binding:"required"`
	Details string                    `json:"details"`
	Actor   string                    `json:"actor" binding:"required"`
}

// Action applies a corrective action to a repair.
// POST /api/v1/repairs/:id/action
func (h *RepairHandler) Action(c *gin.Context) {
	id := c.Param("id")
	var req correctiveActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	repair, err := h.repairUsecase.ApplyCorrectiveAction(c.Request.Context(), id, req.Action, req.Details, req.Actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, repair)
}

type resolveRepairRequest struct {
	Actor string `json:"actor" binding:"required"`
	Notes string `json:"notes"`
}

// Resolve marks a repair resolved.
// POST /api/v1/repairs/:id/resolve
func (h *RepairHandler) Resolve(c *gin.Context) {
	id := c.Param("id")
	var req resolveRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	repair, err := h.repairUsecase.Resolve(c.Request.Context(), id, req.Actor, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, repair)
}

// Statistics summarizes the caller's tenant's repair queue.
// GET /api/v1/repairs/statistics
func (h *RepairHandler) Statistics(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("tenant not authenticated"))
		return
	}

	stats, err := h.repairUsecase.Statistics(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
