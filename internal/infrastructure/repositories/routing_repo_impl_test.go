package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

func TestRoutingRuleRepo_CreateListUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoutingRuleRepository(db)
	ctx := context.Background()

	rule := &entities.PaymentRoutingRule{
		ID: uuid.NewString(), TenantID: "tenant-1", PaymentType: "CREDIT_TRANSFER",
		LocalInstrumentCode: "INST01", RoutingType: entities.RoutingTypeSameBank,
		ProcessingMode: entities.ProcessingModeSync, MessageFormat: entities.MessageFormatJSON,
		Priority: 10, Active: true,
	}
	require.NoError(t, repo.Create(ctx, rule))

	global := &entities.PaymentRoutingRule{
		ID: uuid.NewString(), TenantID: "", PaymentType: "CREDIT_TRANSFER",
		RoutingType: entities.RoutingTypeOtherBank, Priority: 1, Active: true,
	}
	require.NoError(t, repo.Create(ctx, global))

	byTenant, err := repo.ListActiveByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, byTenant, 1)

	globalList, err := repo.ListActiveGlobal(ctx)
	require.NoError(t, err)
	require.Len(t, globalList, 1)

	rule.Priority = 20
	require.NoError(t, repo.Update(ctx, rule))

	updated, err := repo.ListActiveByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 20, updated[0].Priority)

	missing := &entities.PaymentRoutingRule{ID: "does-not-exist"}
	err = repo.Update(ctx, missing)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
