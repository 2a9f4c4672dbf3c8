package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/corebanking"
	"github.com/paynet/iso20022-orchestrator/pkg/utils"
)

// OrchestrationStatus is the terminal disposition of a ProcessPayment call.
type OrchestrationStatus string

const (
	OrchestrationSettled   OrchestrationStatus = "SETTLED"
	OrchestrationRejected  OrchestrationStatus = "REJECTED"
	OrchestrationSuspended OrchestrationStatus = "SUSPENDED"
	OrchestrationRepaired  OrchestrationStatus = "REPAIR"
)

// PaymentRequest is the input to OrchestratorUsecase.ProcessPayment.
type PaymentRequest struct {
	TransactionReference string
	TenantID             string
	FromAccount          string
	ToAccount            string
	Amount               float64
	Currency             string
	PaymentType          string
	LocalInstrumentCode  string
	MessageType          string
	SourceBankCode       string
	DestBankCode         string
	PaymentData          entities.PaymentData
}

// PaymentResult is the outcome of ProcessPayment.
type PaymentResult struct {
	TransactionReference string
	UETR                 string
	Status               OrchestrationStatus
	Decision             entities.Decision
	DebitStatus          entities.LegStatus
	CreditStatus         entities.LegStatus
	RepairID             string
}

// OrchestratorUsecase drives the C7 debit/credit state machine: fraud check,
// routing, adapter dispatch, and repair creation on any partial failure.
type OrchestratorUsecase struct {
	fraud           *FraudUsecase
	routing         *RoutingUsecase
	uetr            *UETRUsecase
	coreBankingRepo repositories.CoreBankingConfigRepository
	adapterFactory  *corebanking.AdapterFactory
	repairRepo      repositories.RepairRepository
	systemID        string

	mailboxes sync.Map // transactionReference -> *sync.Mutex
}

// NewOrchestratorUsecase constructs an OrchestratorUsecase. systemID is the
// 4-character system identifier embedded in generated UETRs.
func NewOrchestratorUsecase(
	fraud *FraudUsecase,
	routing *RoutingUsecase,
	uetr *UETRUsecase,
	coreBankingRepo repositories.CoreBankingConfigRepository,
	adapterFactory *corebanking.AdapterFactory,
	repairRepo repositories.RepairRepository,
	systemID string,
) *OrchestratorUsecase {
	return &OrchestratorUsecase{
		fraud:           fraud,
		routing:         routing,
		uetr:            uetr,
		coreBankingRepo: coreBankingRepo,
		adapterFactory:  adapterFactory,
		repairRepo:      repairRepo,
		systemID:        systemID,
	}
}

// lockFor returns the mutex serializing every transition for a given
// transactionReference, so concurrent submissions of the same reference never
// race on the same payment's state.
func (u *OrchestratorUsecase) lockFor(transactionReference string) *sync.Mutex {
	lock, _ := u.mailboxes.LoadOrStore(transactionReference, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// ProcessPayment runs the full APPROVE→DEBIT→CREDIT→SETTLED pipeline for a
// payment, or produces a repair record on any partial or outright failure.
func (u *OrchestratorUsecase) ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	lock := u.lockFor(req.TransactionReference)
	lock.Lock()
	defer lock.Unlock()

	if existing, err := u.repairRepo.GetByTransactionReference(ctx, req.TransactionReference); err == nil && existing != nil {
		return &PaymentResult{
			TransactionReference: req.TransactionReference,
			Status:               OrchestrationRepaired,
			DebitStatus:          existing.DebitStatus,
			CreditStatus:         existing.CreditStatus,
			RepairID:             existing.ID,
		}, nil
	}

	uetrValue, err := u.uetr.Generate(req.MessageType, u.systemID)
	if err != nil {
		return nil, err
	}
	result := &PaymentResult{TransactionReference: req.TransactionReference, UETR: uetrValue}

	u.track(ctx, uetrValue, req, entities.TrackingStatusPending, "")

	assessment, err := u.fraud.Assess(ctx, AssessmentRequest{
		TransactionReference: req.TransactionReference,
		TenantID:             req.TenantID,
		PaymentType:          req.PaymentType,
		LocalInstrumentCode:  req.LocalInstrumentCode,
		PaymentData:          req.PaymentData,
	})
	if err != nil {
		return nil, err
	}
	result.Decision = assessment.Decision

	switch assessment.Decision {
	case entities.DecisionReject:
		u.track(ctx, uetrValue, req, entities.TrackingStatusRejected, "rejected by fraud assessment")
		result.Status = OrchestrationRejected
		return result, nil
	case entities.DecisionManualReview, entities.DecisionHold, entities.DecisionEscalate:
		u.track(ctx, uetrValue, req, entities.TrackingStatusPending, string(assessment.Decision))
		priority := 6
		if assessment.Decision == entities.DecisionEscalate {
			priority = 10
		}
		repair, err := u.createRepair(ctx, req, entities.RepairTypeManualReview, entities.LegStatusUnknown, entities.LegStatusUnknown, priority, "")
		if err != nil {
			return nil, err
		}
		result.Status = OrchestrationSuspended
		result.RepairID = repair.ID
		return result, nil
	}

	route, err := u.routing.RouteMessage(ctx, entities.RouteRequest{
		TenantID:            req.TenantID,
		PaymentType:         req.PaymentType,
		LocalInstrumentCode: req.LocalInstrumentCode,
		MessageType:         req.MessageType,
		SourceBankCode:      req.SourceBankCode,
		DestBankCode:        req.DestBankCode,
	})
	if err != nil {
		return nil, err
	}

	u.track(ctx, uetrValue, req, entities.TrackingStatusProcessing, "")

	if route.RoutingType == entities.RoutingTypeSameBank {
		return u.processSameBank(ctx, req, uetrValue, result)
	}
	return u.processCrossBank(ctx, req, uetrValue, result)
}

func (u *OrchestratorUsecase) processSameBank(ctx context.Context, req PaymentRequest, uetrValue string, result *PaymentResult) (*PaymentResult, error) {
	adapter, err := u.adapterFor(ctx, req.TenantID, req.SourceBankCode)
	if err != nil {
		return nil, err
	}

	txResult, err := adapter.ProcessTransfer(ctx, req.TenantID, corebanking.TransferRequest{
		TransactionReference: req.TransactionReference,
		FromAccount:          req.FromAccount,
		ToAccount:            req.ToAccount,
		Amount:               req.Amount,
		Currency:             req.Currency,
	})
	if err != nil || txResult.Status != entities.TransactionStatusCompleted {
		legStatus := classifyLegStatus(err, txResult)
		u.track(ctx, uetrValue, req, entities.TrackingStatusFailed, "transfer failed")
		repair, rerr := u.createRepair(ctx, req, classifyRepairType(err, entities.RepairTypeDebitFailed), legStatus, legStatus, repairPriority(err), "")
		if rerr != nil {
			return nil, rerr
		}
		result.Status = OrchestrationRepaired
		result.DebitStatus = legStatus
		result.CreditStatus = legStatus
		result.RepairID = repair.ID
		return result, nil
	}

	u.track(ctx, uetrValue, req, entities.TrackingStatusSettled, "")
	result.Status = OrchestrationSettled
	result.DebitStatus = entities.LegStatusSuccess
	result.CreditStatus = entities.LegStatusSuccess
	return result, nil
}

func (u *OrchestratorUsecase) processCrossBank(ctx context.Context, req PaymentRequest, uetrValue string, result *PaymentResult) (*PaymentResult, error) {
	debitAdapter, err := u.adapterFor(ctx, req.TenantID, req.SourceBankCode)
	if err != nil {
		return nil, err
	}

	debitResult, err := debitAdapter.ProcessDebit(ctx, req.TenantID, corebanking.LegRequest{
		TransactionReference: req.TransactionReference,
		AccountNumber:        req.FromAccount,
		Amount:               req.Amount,
		Currency:             req.Currency,
	})
	debitLeg := classifyLegStatus(err, debitResult)
	if err != nil || debitLeg != entities.LegStatusSuccess {
		u.track(ctx, uetrValue, req, entities.TrackingStatusFailed, "debit failed")
		repair, rerr := u.createRepair(ctx, req, classifyRepairType(err, entities.RepairTypeDebitFailed), debitLeg, entities.LegStatusUnknown, repairPriority(err), "")
		if rerr != nil {
			return nil, rerr
		}
		result.Status = OrchestrationRepaired
		result.DebitStatus = debitLeg
		result.RepairID = repair.ID
		return result, nil
	}

	creditAdapter, err := u.adapterFor(ctx, req.TenantID, req.DestBankCode)
	if err != nil {
		return nil, err
	}

	creditResult, err := creditAdapter.ProcessCredit(ctx, req.TenantID, corebanking.LegRequest{
		TransactionReference: req.TransactionReference,
		AccountNumber:        req.ToAccount,
		Amount:               req.Amount,
		Currency:             req.Currency,
	})
	creditLeg := classifyLegStatus(err, creditResult)
	if err != nil || creditLeg != entities.LegStatusSuccess {
		u.track(ctx, uetrValue, req, entities.TrackingStatusFailed, "credit failed after successful debit")
		repair, rerr := u.createRepair(ctx, req, classifyRepairType(err, entities.RepairTypeCreditFailed), entities.LegStatusSuccess, creditLeg, repairPriority(err), req.TransactionReference)
		if rerr != nil {
			return nil, rerr
		}
		result.Status = OrchestrationRepaired
		result.DebitStatus = entities.LegStatusSuccess
		result.CreditStatus = creditLeg
		result.RepairID = repair.ID
		return result, nil
	}

	u.track(ctx, uetrValue, req, entities.TrackingStatusSettled, "")
	result.Status = OrchestrationSettled
	result.DebitStatus = entities.LegStatusSuccess
	result.CreditStatus = entities.LegStatusSuccess
	return result, nil
}

func (u *OrchestratorUsecase) adapterFor(ctx context.Context, tenantID, bankCode string) (corebanking.Adapter, error) {
	cfg, err := u.coreBankingRepo.GetByTenantAndBank(ctx, tenantID, bankCode)
	if err != nil {
		cfg = &entities.CoreBankingConfig{TenantID: tenantID, BankCode: bankCode, AdapterKind: entities.AdapterKindInternal}
	}
	return u.adapterFactory.Get(cfg)
}

func (u *OrchestratorUsecase) track(ctx context.Context, uetrValue string, req PaymentRequest, status entities.TrackingStatus, reason string) {
	_ = u.uetr.Record(ctx, &entities.TrackingRecord{
		UETR:                 uetrValue,
		MessageType:          req.MessageType,
		TenantID:             req.TenantID,
		TransactionReference: req.TransactionReference,
		Direction:            entities.DirectionOutbound,
		Status:               status,
		StatusReason:         reason,
	})
}

func (u *OrchestratorUsecase) createRepair(ctx context.Context, req PaymentRequest, repairType entities.RepairType, debitStatus, creditStatus entities.LegStatus, priority int, debitReference string) (*entities.TransactionRepair, error) {
	now := time.Now()
	repair := &entities.TransactionRepair{
		ID:                   utils.GenerateUUIDv7().String(),
		TransactionReference: req.TransactionReference,
		TenantID:             req.TenantID,
		RepairType:           repairType,
		RepairStatus:         entities.RepairStatusPending,
		FromAccount:          req.FromAccount,
		ToAccount:            req.ToAccount,
		Amount:               req.Amount,
		Currency:             req.Currency,
		DebitStatus:          debitStatus,
		CreditStatus:         creditStatus,
		DebitReference:       debitReference,
		MaxRetries:           5,
		Priority:             priority,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := u.repairRepo.Create(ctx, repair); err != nil {
		return nil, err
	}
	return repair, nil
}

// classifyLegStatus derives the observed leg outcome from an adapter error
// and/or the business-level TransactionResult it returned.
func classifyLegStatus(err error, result *entities.TransactionResult) entities.LegStatus {
	if errors.Is(err, context.DeadlineExceeded) {
		return entities.LegStatusTimeout
	}
	if err != nil {
		return entities.LegStatusFailed
	}
	if result == nil {
		return entities.LegStatusFailed
	}
	switch result.Status {
	case entities.TransactionStatusCompleted:
		return entities.LegStatusSuccess
	case entities.TransactionStatusTimeout:
		return entities.LegStatusTimeout
	default:
		return entities.LegStatusFailed
	}
}

// classifyRepairType maps an adapter error onto a RepairType: business errors
// reuse the provided default (DEBIT_FAILED/CREDIT_FAILED), timeouts become
// the *_TIMEOUT variant, and anything unrecognized is a SYSTEM_ERROR.
func classifyRepairType(err error, businessDefault entities.RepairType) entities.RepairType {
	if errors.Is(err, context.DeadlineExceeded) {
		if businessDefault == entities.RepairTypeDebitFailed {
			return entities.RepairTypeDebitTimeout
		}
		return entities.RepairTypeCreditTimeout
	}
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Code == domainerrors.CodeBusiness {
		return businessDefault
	}
	if err == nil {
		return businessDefault
	}
	if errors.Is(err, domainerrors.ErrAdapterUnavailable) {
		return entities.RepairTypeSystemError
	}
	return entities.RepairTypeSystemError
}

// repairPriority assigns 6 for unclassified/system errors, 5 for business
// errors (the common, expected case), per §4.7.
func repairPriority(err error) int {
	if err == nil {
		return 5
	}
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Code == domainerrors.CodeBusiness {
		return 5
	}
	return 6
}
