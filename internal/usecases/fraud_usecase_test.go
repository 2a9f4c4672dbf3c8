package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
)

func newTestFraudUsecase(t *testing.T) *FraudUsecase {
	t.Helper()
	db := newTestDB(t)
	envelope := resiliency.NewEnvelope()
	return NewFraudUsecase(
		repositories.NewFraudConfigRepository(db),
		repositories.NewFraudAssessmentRepository(db),
		envelope,
		entities.DecisionManualReview,
	)
}

func strPtr(s string) *string { return &s }

func TestFraudUsecase_NoConfigurationApproves(t *testing.T) {
	svc := newTestFraudUsecase(t)
	ctx := context.Background()

	result, err := svc.Assess(ctx, AssessmentRequest{
		TransactionReference: "tx-1",
		TenantID:             "tenant-1",
		PaymentType:          "WIRE_DOMESTIC",
		PaymentData:          entities.PaymentData{"amount": 100.0},
	})
	require.NoError(t, err)
	require.Equal(t, entities.DecisionApprove, result.Decision)
	require.Equal(t, entities.AssessmentStatusCompleted, result.Status)
}

func TestFraudUsecase_RiskRulesAndThresholdDriveDecision(t *testing.T) {
	svc := newTestFraudUsecase(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateConfiguration(ctx, &entities.FraudRiskConfiguration{
		ID:                "cfg-1",
		ConfigurationName: "high value wire",
		TenantID:          "tenant-1",
		PaymentType:       strPtr("WIRE_DOMESTIC"),
		PaymentSource:     entities.PaymentSourceBoth,
		Priority:          1,
		Enabled:           true,
		RiskRules: []entities.RiskRule{
			{Name: "large-amount", Field: "amount", Operator: "gt", Value: 5000.0, Weight: 0.9},
		},
		Thresholds: []entities.ThresholdRule{
			{MinScore: 0.8, Decision: entities.DecisionReject, RiskLevel: entities.RiskLevelCritical},
			{MinScore: 0.3, Decision: entities.DecisionManualReview, RiskLevel: entities.RiskLevelMedium},
		},
	}))

	result, err := svc.Assess(ctx, AssessmentRequest{
		TransactionReference: "tx-2",
		TenantID:             "tenant-1",
		PaymentType:          "WIRE_DOMESTIC",
		PaymentData:          entities.PaymentData{"amount": 10000.0},
	})
	require.NoError(t, err)
	require.Equal(t, entities.DecisionReject, result.Decision)
	require.Equal(t, entities.RiskLevelCritical, result.RiskLevel)
}

func TestFraudUsecase_ConfigurationWildcardDoesNotMatchDifferentPaymentType(t *testing.T) {
	svc := newTestFraudUsecase(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateConfiguration(ctx, &entities.FraudRiskConfiguration{
		ID:            "cfg-2",
		TenantID:      "tenant-1",
		PaymentType:   strPtr("WIRE_DOMESTIC"),
		PaymentSource: entities.PaymentSourceBoth,
		Priority:      1,
		Enabled:       true,
		Thresholds: []entities.ThresholdRule{
			{MinScore: 0, Decision: entities.DecisionReject, RiskLevel: entities.RiskLevelCritical},
		},
	}))

	result, err := svc.Assess(ctx, AssessmentRequest{
		TransactionReference: "tx-3",
		TenantID:             "tenant-1",
		PaymentType:          "SEPA_CREDIT",
		PaymentData:          entities.PaymentData{"amount": 10.0},
	})
	require.NoError(t, err)
	require.Equal(t, entities.DecisionApprove, result.Decision)
}

func TestFraudUsecase_DecisionCriterionTakesPriorityOverThreshold(t *testing.T) {
	svc := newTestFraudUsecase(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateConfiguration(ctx, &entities.FraudRiskConfiguration{
		ID:            "cfg-3",
		TenantID:      "tenant-1",
		PaymentSource: entities.PaymentSourceBoth,
		Priority:      1,
		Enabled:       true,
		DecisionCriteria: []entities.DecisionCriterion{
			{Field: "country", Operator: "eq", Value: "SANCTIONED", Decision: entities.DecisionReject},
		},
		Thresholds: []entities.ThresholdRule{
			{MinScore: 0, Decision: entities.DecisionApprove, RiskLevel: entities.RiskLevelLow},
		},
	}))

	result, err := svc.Assess(ctx, AssessmentRequest{
		TransactionReference: "tx-4",
		TenantID:             "tenant-1",
		PaymentData:          entities.PaymentData{"country": "SANCTIONED"},
	})
	require.NoError(t, err)
	require.Equal(t, entities.DecisionReject, result.Decision)
}

func TestFraudUsecase_GetByTransactionReference(t *testing.T) {
	svc := newTestFraudUsecase(t)
	ctx := context.Background()

	_, err := svc.Assess(ctx, AssessmentRequest{TransactionReference: "tx-5", TenantID: "tenant-1", PaymentData: entities.PaymentData{}})
	require.NoError(t, err)

	found, err := svc.GetByTransactionReference(ctx, "tx-5")
	require.NoError(t, err)
	require.Equal(t, "tx-5", found.TransactionReference)
}

func TestFraudUsecase_DisabledConfigurationIsIgnored(t *testing.T) {
	svc := newTestFraudUsecase(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateConfiguration(ctx, &entities.FraudRiskConfiguration{
		ID:            "cfg-4",
		TenantID:      "tenant-1",
		PaymentSource: entities.PaymentSourceBoth,
		Priority:      1,
		Enabled:       false,
		Thresholds: []entities.ThresholdRule{
			{MinScore: 0, Decision: entities.DecisionReject, RiskLevel: entities.RiskLevelCritical},
		},
	}))

	result, err := svc.Assess(ctx, AssessmentRequest{TransactionReference: "tx-6", TenantID: "tenant-1", PaymentData: entities.PaymentData{}})
	require.NoError(t, err)
	require.Equal(t, entities.DecisionApprove, result.Decision)
}
