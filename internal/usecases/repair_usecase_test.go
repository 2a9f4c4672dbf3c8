package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/corebanking"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
)

func newTestRepairUsecase(t *testing.T) (*RepairUsecase, *corebanking.InternalAdapter) {
	t.Helper()
	db := newTestDB(t)
	factory := corebanking.NewAdapterFactory(resiliency.NewEnvelope())
	internal := corebanking.NewInternalAdapter("")
	internal.SeedAccount(&entities.Account{AccountNumber: "ACC-SRC", BankCode: "", Balance: 1000, Currency: "USD"})
	internal.SeedAccount(&entities.Account{AccountNumber: "ACC-DST", BankCode: "", Balance: 0, Currency: "USD"})
	factory.Register(entities.AdapterKindInternal, "", "", internal)

	return NewRepairUsecase(repositories.NewRepairRepository(db), factory, repositories.NewCoreBankingConfigRepository(db)), internal
}

func seedRepair(t *testing.T, u *RepairUsecase) *entities.TransactionRepair {
	t.Helper()
	repair := &entities.TransactionRepair{
		TransactionReference: "tx-1",
		TenantID:              "tenant-1",
		RepairType:            entities.RepairTypeCreditFailed,
		FromAccount:           "ACC-SRC",
		ToAccount:             "ACC-DST",
		Amount:                100,
		Currency:              "USD",
		DebitStatus:           entities.LegStatusSuccess,
		CreditStatus:          entities.LegStatusFailed,
		MaxRetries:            5,
		Priority:              5,
	}
	require.NoError(t, u.Create(context.Background(), repair))
	return repair
}

func TestRepairUsecase_AssignMovesToAssigned(t *testing.T) {
	u, _ := newTestRepairUsecase(t)
	repair := seedRepair(t, u)

	updated, err := u.Assign(context.Background(), repair.ID, "ops-user-1")
	require.NoError(t, err)
	require.Equal(t, entities.RepairStatusAssigned, updated.RepairStatus)
	require.Equal(t, "ops-user-1", updated.AssignedTo)
}

func TestRepairUsecase_ApplyCorrectiveAction_RetryCreditSucceeds(t *testing.T) {
	u, _ := newTestRepairUsecase(t)
	repair := seedRepair(t, u)

	updated, err := u.ApplyCorrectiveAction(context.Background(), repair.ID, entities.ActionRetryCredit, "", "ops-user-1")
	require.NoError(t, err)
	require.Equal(t, entities.LegStatusSuccess, updated.CreditStatus)
	require.Equal(t, entities.RepairStatusResolved, updated.RepairStatus)
}

func TestRepairUsecase_ApplyCorrectiveAction_CancelTransaction(t *testing.T) {
	u, _ := newTestRepairUsecase(t)
	repair := seedRepair(t, u)

	updated, err := u.ApplyCorrectiveAction(context.Background(), repair.ID, entities.ActionCancelTransaction, "", "ops-user-1")
	require.NoError(t, err)
	require.Equal(t, entities.RepairStatusCancelled, updated.RepairStatus)
	require.True(t, updated.RepairStatus.IsTerminal())
}

func TestRepairUsecase_ApplyCorrectiveAction_ManualCreditResolves(t *testing.T) {
	u, _ := newTestRepairUsecase(t)
	repair := seedRepair(t, u)

	updated, err := u.ApplyCorrectiveAction(context.Background(), repair.ID, entities.ActionManualCredit, "paid via wire", "ops-user-1")
	require.NoError(t, err)
	require.Equal(t, entities.RepairStatusResolved, updated.RepairStatus)
	require.Contains(t, updated.ResolutionNotes, "ops-user-1")
}

func TestRepairUsecase_ApplyCorrectiveAction_OnTerminalRepairFails(t *testing.T) {
	u, _ := newTestRepairUsecase(t)
	repair := seedRepair(t, u)

	_, err := u.Resolve(context.Background(), repair.ID, "ops-user-1", "done")
	require.NoError(t, err)

	_, err = u.ApplyCorrectiveAction(context.Background(), repair.ID, entities.ActionEscalate, "", "ops-user-1")
	require.Error(t, err)
}

func TestRepairUsecase_ListAndStatistics(t *testing.T) {
	u, _ := newTestRepairUsecase(t)
	seedRepair(t, u)

	repairs, err := u.List(context.Background(), entities.RepairFilter{TenantID: "tenant-1"})
	require.NoError(t, err)
	require.Len(t, repairs, 1)

	stats, err := u.Statistics(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.Pending)
}
