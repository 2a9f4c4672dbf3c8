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

type orchestratorHarness struct {
	orchestrator *OrchestratorUsecase
	internal     *corebanking.InternalAdapter
}

func newOrchestratorHarness(t *testing.T) orchestratorHarness {
	t.Helper()
	db := newTestDB(t)

	fraud := NewFraudUsecase(
		repositories.NewFraudConfigRepository(db),
		repositories.NewFraudAssessmentRepository(db),
		resiliency.NewEnvelope(),
		entities.DecisionManualReview,
	)
	routing := NewRoutingUsecase(
		repositories.NewRoutingRuleRepository(db),
		repositories.NewClearingSystemConfigRepository(db),
		repositories.NewCoreBankingConfigRepository(db),
	)
	uetr, err := NewUETRUsecase(repositories.NewUETRRepository(db), "")
	require.NoError(t, err)

	factory := corebanking.NewAdapterFactory(resiliency.NewEnvelope())
	internal := corebanking.NewInternalAdapter("BANK001")
	internal.SeedAccount(&entities.Account{AccountNumber: "ACC-SRC", BankCode: "BANK001", HolderName: "Alice", Balance: 1000, Currency: "USD"})
	internal.SeedAccount(&entities.Account{AccountNumber: "ACC-DST", BankCode: "BANK001", HolderName: "Bob", Balance: 100, Currency: "USD"})
	factory.Register(entities.AdapterKindInternal, "BANK001", "", internal)

	orchestrator := NewOrchestratorUsecase(
		fraud, routing, uetr,
		repositories.NewCoreBankingConfigRepository(db),
		factory,
		repositories.NewRepairRepository(db),
		"PYNT",
	)
	return orchestratorHarness{orchestrator: orchestrator, internal: internal}
}

func TestOrchestrator_SameBankPaymentSettles(t *testing.T) {
	h := newOrchestratorHarness(t)
	ctx := context.Background()

	result, err := h.orchestrator.ProcessPayment(ctx, PaymentRequest{
		TransactionReference: "tx-settle-1",
		TenantID:              "tenant-1",
		FromAccount:            "ACC-SRC",
		ToAccount:              "ACC-DST",
		Amount:                 50,
		Currency:               "USD",
		PaymentType:            "WIRE_DOMESTIC",
		MessageType:            "pacs.008",
		SourceBankCode:         "BANK001",
		DestBankCode:           "BANK001",
		PaymentData:            entities.PaymentData{"amount": 50.0},
	})
	require.NoError(t, err)
	require.Equal(t, OrchestrationSettled, result.Status)
	require.Equal(t, entities.LegStatusSuccess, result.DebitStatus)
	require.NotEmpty(t, result.UETR)

	balance, err := h.internal.GetAccountBalance(ctx, "tenant-1", "ACC-DST")
	require.NoError(t, err)
	require.Equal(t, 150.0, balance)
}

func TestOrchestrator_InsufficientFundsProducesRepair(t *testing.T) {
	h := newOrchestratorHarness(t)
	ctx := context.Background()

	result, err := h.orchestrator.ProcessPayment(ctx, PaymentRequest{
		TransactionReference: "tx-fail-1",
		TenantID:             "tenant-1",
		FromAccount:          "ACC-SRC",
		ToAccount:            "ACC-DST",
		Amount:               5000,
		Currency:             "USD",
		PaymentType:          "WIRE_DOMESTIC",
		MessageType:          "pacs.008",
		SourceBankCode:       "BANK001",
		DestBankCode:         "BANK001",
		PaymentData:          entities.PaymentData{"amount": 5000.0},
	})
	require.NoError(t, err)
	require.Equal(t, OrchestrationRepaired, result.Status)
	require.NotEmpty(t, result.RepairID)
}

func TestOrchestrator_FraudRejectHaltsBeforeRouting(t *testing.T) {
	h := newOrchestratorHarness(t)
	ctx := context.Background()

	require.NoError(t, h.orchestrator.fraud.CreateConfiguration(ctx, &entities.FraudRiskConfiguration{
		ID:            "cfg-reject",
		TenantID:      "tenant-1",
		PaymentSource: entities.PaymentSourceBoth,
		Priority:      1,
		Enabled:       true,
		Thresholds: []entities.ThresholdRule{
			{MinScore: 0, Decision: entities.DecisionReject, RiskLevel: entities.RiskLevelCritical},
		},
	}))

	result, err := h.orchestrator.ProcessPayment(ctx, PaymentRequest{
		TransactionReference: "tx-reject-1",
		TenantID:             "tenant-1",
		FromAccount:          "ACC-SRC",
		ToAccount:            "ACC-DST",
		Amount:               10,
		Currency:             "USD",
		SourceBankCode:       "BANK001",
		DestBankCode:         "BANK001",
		PaymentData:          entities.PaymentData{},
	})
	require.NoError(t, err)
	require.Equal(t, OrchestrationRejected, result.Status)
	require.Equal(t, entities.DecisionReject, result.Decision)

	balance, err := h.internal.GetAccountBalance(ctx, "tenant-1", "ACC-SRC")
	require.NoError(t, err)
	require.Equal(t, 1000.0, balance)
}

func TestOrchestrator_DuplicateReferenceReturnsExistingRepair(t *testing.T) {
	h := newOrchestratorHarness(t)
	ctx := context.Background()

	first, err := h.orchestrator.ProcessPayment(ctx, PaymentRequest{
		TransactionReference: "tx-dup-1",
		TenantID:             "tenant-1",
		FromAccount:          "ACC-SRC",
		ToAccount:            "ACC-DST",
		Amount:               5000,
		Currency:             "USD",
		SourceBankCode:       "BANK001",
		DestBankCode:         "BANK001",
		PaymentData:          entities.PaymentData{},
	})
	require.NoError(t, err)
	require.Equal(t, OrchestrationRepaired, first.Status)

	second, err := h.orchestrator.ProcessPayment(ctx, PaymentRequest{
		TransactionReference: "tx-dup-1",
		TenantID:             "tenant-1",
		FromAccount:          "ACC-SRC",
		ToAccount:            "ACC-DST",
		Amount:               5000,
		Currency:             "USD",
		SourceBankCode:       "BANK001",
		DestBankCode:         "BANK001",
		PaymentData:          entities.PaymentData{},
	})
	require.NoError(t, err)
	require.Equal(t, first.RepairID, second.RepairID)
}
