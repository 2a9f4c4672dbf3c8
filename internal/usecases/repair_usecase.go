package usecases

import (
	"context"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/corebanking"
	"github.com/paynet/iso20022-orchestrator/pkg/utils"
)

// RepairUsecase implements C8: creation, assignment, corrective actions, and
// resolution of transaction repairs.
type RepairUsecase struct {
	repairRepo     repositories.RepairRepository
	adapterFactory *corebanking.AdapterFactory
	coreBankingRepo repositories.CoreBankingConfigRepository
}

// NewRepairUsecase constructs a RepairUsecase.
func NewRepairUsecase(repairRepo repositories.RepairRepository, adapterFactory *corebanking.AdapterFactory, coreBankingRepo repositories.CoreBankingConfigRepository) *RepairUsecase {
	return &RepairUsecase{repairRepo: repairRepo, adapterFactory: adapterFactory, coreBankingRepo: coreBankingRepo}
}

// Create persists a new repair with a generated id.
func (u *RepairUsecase) Create(ctx context.Context, repair *entities.TransactionRepair) error {
	if repair.ID == "" {
		repair.ID = utils.GenerateUUIDv7().String()
	}
	if repair.RepairStatus == "" {
		repair.RepairStatus = entities.RepairStatusPending
	}
	return u.repairRepo.Create(ctx, repair)
}

// Assign moves a repair to ASSIGNED and records the assignee.
func (u *RepairUsecase) Assign(ctx context.Context, id, assignee string) (*entities.TransactionRepair, error) {
	repair, err := u.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if repair.RepairStatus.IsTerminal() {
		return nil, domainerrors.ErrInvalidRepairState
	}
	expected := repair.Version
	repair.RepairStatus = entities.RepairStatusAssigned
	repair.AssignedTo = assignee
	if err := u.repairRepo.Update(ctx, repair, expected); err != nil {
		return nil, err
	}
	return repair, nil
}

// List returns repairs matching filter.
func (u *RepairUsecase) List(ctx context.Context, filter entities.RepairFilter) ([]*entities.TransactionRepair, error) {
	return u.repairRepo.List(ctx, filter)
}

// Statistics summarizes a tenant's repair queue.
func (u *RepairUsecase) Statistics(ctx context.Context, tenantID string) (*entities.RepairStatistics, error) {
	return u.repairRepo.Statistics(ctx, tenantID)
}

// Resolve moves a repair to RESOLVED, recording the actor and notes.
func (u *RepairUsecase) Resolve(ctx context.Context, id, actor, notes string) (*entities.TransactionRepair, error) {
	repair, err := u.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if repair.RepairStatus.IsTerminal() {
		return nil, domainerrors.ErrInvalidRepairState
	}
	expected := repair.Version
	now := time.Now()
	repair.RepairStatus = entities.RepairStatusResolved
	repair.ResolvedBy = actor
	repair.ResolutionNotes = notes
	repair.ResolvedAt = &now
	if err := u.repairRepo.Update(ctx, repair, expected); err != nil {
		return nil, err
	}
	return repair, nil
}

// ApplyCorrectiveAction executes the closed set of corrective actions
// against a repair, per §4.8.
func (u *RepairUsecase) ApplyCorrectiveAction(ctx context.Context, id string, action entities.CorrectiveAction, details, actor string) (*entities.TransactionRepair, error) {
	repair, err := u.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if repair.RepairStatus.IsTerminal() {
		return nil, domainerrors.ErrInvalidRepairState
	}
	expected := repair.Version
	repair.CorrectiveAction = action
	repair.RepairStatus = entities.RepairStatusInProgress

	switch action {
	case entities.ActionRetryDebit:
		u.retryLeg(ctx, repair, true)
	case entities.ActionRetryCredit:
		u.retryLeg(ctx, repair, false)
	case entities.ActionRetryBoth:
		u.retryLeg(ctx, repair, true)
		if repair.DebitStatus == entities.LegStatusSuccess {
			u.retryLeg(ctx, repair, false)
		}
	case entities.ActionReverseDebit, entities.ActionReverseCredit, entities.ActionReverseBoth:
		repair.AwaitingVerification = true
	case entities.ActionManualDebit:
		repair.DebitStatus = entities.LegStatusSuccess
		repair.ResolutionNotes = appendNote(repair.ResolutionNotes, "manual debit recorded by "+actor+": "+details)
	case entities.ActionManualCredit:
		repair.CreditStatus = entities.LegStatusSuccess
		repair.ResolutionNotes = appendNote(repair.ResolutionNotes, "manual credit recorded by "+actor+": "+details)
	case entities.ActionManualBoth:
		repair.DebitStatus = entities.LegStatusSuccess
		repair.CreditStatus = entities.LegStatusSuccess
		repair.ResolutionNotes = appendNote(repair.ResolutionNotes, "manual debit+credit recorded by "+actor+": "+details)
	case entities.ActionCancelTransaction:
		repair.RepairStatus = entities.RepairStatusCancelled
	case entities.ActionEscalate:
		repair.Priority = 10
		repair.RepairStatus = entities.RepairStatusPending
	case entities.ActionNoAction:
		repair.RepairStatus = entities.RepairStatusResolved
		now := time.Now()
		repair.ResolvedAt = &now
		repair.ResolvedBy = actor
	}

	if repair.DebitStatus == entities.LegStatusSuccess && repair.CreditStatus == entities.LegStatusSuccess && repair.RepairStatus == entities.RepairStatusInProgress {
		now := time.Now()
		repair.RepairStatus = entities.RepairStatusResolved
		repair.ResolvedAt = &now
		repair.ResolvedBy = actor
	}

	if err := u.repairRepo.Update(ctx, repair, expected); err != nil {
		return nil, err
	}
	return repair, nil
}

// retryLeg submits a new debit or credit leg via the core banking adapter,
// suffixing the reference per §4.8 and updating the repair's leg status.
func (u *RepairUsecase) retryLeg(ctx context.Context, repair *entities.TransactionRepair, debit bool) {
	repair.RetryCount++
	suffix := "-RETRY-CREDIT"
	bankCode := ""
	account := repair.ToAccount
	if debit {
		suffix = "-RETRY-DEBIT"
		account = repair.FromAccount
	}
	reference := repair.TransactionReference + suffix

	cfg, err := u.coreBankingRepo.GetByTenantAndBank(ctx, repair.TenantID, bankCode)
	if err != nil {
		cfg = &entities.CoreBankingConfig{TenantID: repair.TenantID, BankCode: bankCode, AdapterKind: entities.AdapterKindInternal}
	}
	adapter, err := u.adapterFactory.Get(cfg)
	if err != nil {
		return
	}

	var result *entities.TransactionResult
	if debit {
		result, err = adapter.ProcessDebit(ctx, repair.TenantID, corebanking.LegRequest{TransactionReference: reference, AccountNumber: account, Amount: repair.Amount, Currency: repair.Currency})
	} else {
		result, err = adapter.ProcessCredit(ctx, repair.TenantID, corebanking.LegRequest{TransactionReference: reference, AccountNumber: account, Amount: repair.Amount, Currency: repair.Currency})
	}

	legStatus := classifyLegStatus(err, result)
	if debit {
		repair.DebitStatus = legStatus
		repair.DebitReference = reference
	} else {
		repair.CreditStatus = legStatus
	}
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
