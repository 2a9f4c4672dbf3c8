package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/corebanking"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/messaging"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
)

// flakyAdapter wraps an InternalAdapter but can be toggled to fail
// GetAccountInfo, simulating an unreachable downstream for health probing.
type flakyAdapter struct {
	*corebanking.InternalAdapter
	mu   sync.Mutex
	fail bool
}

func (f *flakyAdapter) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *flakyAdapter) GetAccountInfo(ctx context.Context, tenantID, accountNumber string) (*entities.Account, error) {
	f.mu.Lock()
	failing := f.fail
	f.mu.Unlock()
	if failing {
		return nil, errors.New("connection refused")
	}
	return f.InternalAdapter.GetAccountInfo(ctx, tenantID, accountNumber)
}

func newMonitorHarness(t *testing.T, rules map[string]entities.AutoHealRule) (*MonitorUsecase, *flakyAdapter, domainrepos.CoreBankingConfigRepository, domainrepos.QueuedMessageRepository) {
	t.Helper()
	db := newTestDB(t)

	tenantRepo := repositories.NewTenantRepository(db)
	coreBankingRepo := repositories.NewCoreBankingConfigRepository(db)
	queueRepo := repositories.NewInMemoryQueuedMessageRepository()
	envelope := resiliency.NewEnvelope()
	factory := corebanking.NewAdapterFactory(envelope)

	adapter := &flakyAdapter{InternalAdapter: corebanking.NewInternalAdapter("BANK001")}
	factory.Register(entities.AdapterKindInternal, "BANK001", "", adapter)

	require.NoError(t, tenantRepo.Create(context.Background(), &entities.Tenant{ID: "tenant-1", Code: "T1", Name: "Tenant One", Status: entities.TenantStatusActive}))
	require.NoError(t, coreBankingRepo.Create(context.Background(), &entities.CoreBankingConfig{
		ID: "cfg-1", TenantID: "tenant-1", BankCode: "BANK001", AdapterKind: entities.AdapterKindInternal, Active: true,
	}))

	monitor := NewMonitorUsecase(tenantRepo, coreBankingRepo, queueRepo, factory, envelope, messaging.NoopRecoveryPublisher{}, rules)
	return monitor, adapter, coreBankingRepo, queueRepo
}

func TestMonitorUsecase_PerformHealthChecksHealthy(t *testing.T) {
	monitor, _, _, _ := newMonitorHarness(t, nil)

	results, err := monitor.PerformHealthChecks(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Healthy)
	require.Equal(t, "BANK001", results[0].TargetName)
}

func TestMonitorUsecase_RecoveryDrainsQueuedMessages(t *testing.T) {
	monitor, adapter, _, queueRepo := newMonitorHarness(t, nil)
	ctx := context.Background()

	adapter.setFail(true)
	results, err := monitor.PerformHealthChecks(ctx, "tenant-1")
	require.NoError(t, err)
	require.False(t, results[0].Healthy)

	require.NoError(t, queueRepo.Enqueue(ctx, &entities.QueuedMessage{
		ID: "msg-1", TenantID: "tenant-1", TransactionReference: "tx-1", Topic: "BANK001", MaxAttempts: 5,
	}))

	adapter.setFail(false)
	results, err = monitor.PerformHealthChecks(ctx, "tenant-1")
	require.NoError(t, err)
	require.True(t, results[0].Healthy)

	due, err := queueRepo.ListDueByTopic(ctx, "BANK001", 10)
	require.NoError(t, err)
	require.Empty(t, due, "recovered target should have drained its queued message")
}

func TestMonitorUsecase_ProcessQueuedMessagesForServiceDelivers(t *testing.T) {
	monitor, _, _, queueRepo := newMonitorHarness(t, nil)
	ctx := context.Background()

	require.NoError(t, queueRepo.Enqueue(ctx, &entities.QueuedMessage{
		ID: "msg-2", TenantID: "tenant-1", TransactionReference: "tx-2", Topic: "BANK001", MaxAttempts: 5,
	}))

	delivered, err := monitor.ProcessQueuedMessagesForService(ctx, "BANK001", "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 1, delivered)
}

func TestMonitorUsecase_AutoRetryRespectsRuleDisabled(t *testing.T) {
	monitor, _, _, queueRepo := newMonitorHarness(t, map[string]entities.AutoHealRule{
		"BANK001": {AutoRetryEnabled: false},
	})
	ctx := context.Background()

	require.NoError(t, queueRepo.Enqueue(ctx, &entities.QueuedMessage{
		ID: "msg-3", TenantID: "tenant-1", TransactionReference: "tx-3", Topic: "BANK001", MaxAttempts: 5,
	}))

	total, err := monitor.AutoRetryFailedOperations(ctx, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 0, total)
}

func TestMonitorUsecase_ResetCircuitBreaker(t *testing.T) {
	monitor, _, _, _ := newMonitorHarness(t, nil)
	require.NoError(t, monitor.ResetCircuitBreaker(context.Background(), "BANK001", "tenant-1"))
}
