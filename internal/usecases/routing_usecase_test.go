package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/repositories"
)

func newTestRoutingUsecase(t *testing.T) *RoutingUsecase {
	t.Helper()
	db := newTestDB(t)
	return NewRoutingUsecase(
		repositories.NewRoutingRuleRepository(db),
		repositories.NewClearingSystemConfigRepository(db),
		repositories.NewCoreBankingConfigRepository(db),
	)
}

func TestRoutingUsecase_SameBankByBankCodeComparison(t *testing.T) {
	svc := newTestRoutingUsecase(t)
	ctx := context.Background()

	result, err := svc.RouteMessage(ctx, entities.RouteRequest{
		TenantID: "demo-bank", PaymentType: "WIRE_DOMESTIC", LocalInstrumentCode: "WIRE",
		MessageType: "pacs.008", SourceBankCode: "BANK001", DestBankCode: "BANK001",
	})
	require.NoError(t, err)
	require.Equal(t, entities.RoutingTypeSameBank, result.RoutingType)
	require.Equal(t, entities.ProcessingModeSync, result.ProcessingMode)
	require.False(t, result.RequiresClearingSystem)
}

func TestRoutingUsecase_OtherBankRequiresActiveClearingSystem(t *testing.T) {
	db := newTestDB(t)
	clearingRepo := repositories.NewClearingSystemConfigRepository(db)
	require.NoError(t, clearingRepo.Upsert(context.Background(), &entities.ClearingSystemConfig{
		Code: "CHAPS", Name: "CHAPS", EndpointURL: "https://chaps.example", Active: true,
	}))

	routingRepo := repositories.NewRoutingRuleRepository(db)
	require.NoError(t, routingRepo.Create(context.Background(), &entities.PaymentRoutingRule{
		ID: "rule-1", TenantID: "demo-bank", PaymentType: "WIRE_INTL",
		RoutingType: entities.RoutingTypeOtherBank, ClearingSystemCode: "CHAPS",
		ProcessingMode: entities.ProcessingModeAsync, MessageFormat: entities.MessageFormatXML,
		Priority: 10, Active: true,
	}))

	svc := NewRoutingUsecase(routingRepo, clearingRepo, repositories.NewCoreBankingConfigRepository(db))
	result, err := svc.RouteMessage(context.Background(), entities.RouteRequest{
		TenantID: "demo-bank", PaymentType: "WIRE_INTL", MessageType: "pacs.008",
		SourceBankCode: "BANK001", DestBankCode: "BANK002",
	})
	require.NoError(t, err)
	require.Equal(t, entities.RoutingTypeOtherBank, result.RoutingType)
	require.Equal(t, "CHAPS", result.ClearingSystemCode)
	require.Equal(t, "scheme-chaps-pacs.008", result.SchemeConfigurationID)
}

func TestRoutingUsecase_OtherBankWithoutRuleOrClearingSystemFails(t *testing.T) {
	svc := newTestRoutingUsecase(t)
	_, err := svc.RouteMessage(context.Background(), entities.RouteRequest{
		TenantID: "demo-bank", PaymentType: "WIRE_INTL", MessageType: "pacs.008",
		SourceBankCode: "BANK001", DestBankCode: "BANK002",
	})
	require.Error(t, err)
}

func TestRoutingUsecase_TenantSpecificRuleBeatsGlobal(t *testing.T) {
	db := newTestDB(t)
	clearingRepo := repositories.NewClearingSystemConfigRepository(db)
	require.NoError(t, clearingRepo.Upsert(context.Background(), &entities.ClearingSystemConfig{Code: "FEDWIRE", Active: true}))
	require.NoError(t, clearingRepo.Upsert(context.Background(), &entities.ClearingSystemConfig{Code: "CHAPS", Active: true}))

	routingRepo := repositories.NewRoutingRuleRepository(db)
	require.NoError(t, routingRepo.Create(context.Background(), &entities.PaymentRoutingRule{
		ID: "global", TenantID: "", PaymentType: "WIRE_INTL",
		RoutingType: entities.RoutingTypeOtherBank, ClearingSystemCode: "FEDWIRE", Priority: 1, Active: true,
	}))
	require.NoError(t, routingRepo.Create(context.Background(), &entities.PaymentRoutingRule{
		ID: "tenant", TenantID: "demo-bank", PaymentType: "WIRE_INTL",
		RoutingType: entities.RoutingTypeOtherBank, ClearingSystemCode: "CHAPS", Priority: 1, Active: true,
	}))

	svc := NewRoutingUsecase(routingRepo, clearingRepo, repositories.NewCoreBankingConfigRepository(db))
	result, err := svc.RouteMessage(context.Background(), entities.RouteRequest{
		TenantID: "demo-bank", PaymentType: "WIRE_INTL", MessageType: "pacs.008",
	})
	require.NoError(t, err)
	require.Equal(t, "CHAPS", result.ClearingSystemCode)
}
