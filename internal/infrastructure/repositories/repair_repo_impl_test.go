package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

func newRepair(ref string) *entities.TransactionRepair {
	return &entities.TransactionRepair{
		ID:                    uuid.NewString(),
		TransactionReference:  ref,
		TenantID:              "tenant-1",
		RepairType:            entities.RepairTypeCreditFailed,
		RepairStatus:          entities.RepairStatusPending,
		FromAccount:           "ACC-1",
		ToAccount:             "ACC-2",
		Amount:                100.50,
		Currency:              "USD",
		RetryCount:            0,
		MaxRetries:            3,
		Priority:              9,
	}
}

func TestRepairRepo_CreateGetByIDAndReference(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepairRepository(db)
	ctx := context.Background()

	repair := newRepair("TXN-001")
	require.NoError(t, repo.Create(ctx, repair))
	require.Equal(t, 1, repair.Version)

	got, err := repo.GetByID(ctx, repair.ID)
	require.NoError(t, err)
	require.Equal(t, "TXN-001", got.TransactionReference)
	require.True(t, got.IsHighPriority())

	byRef, err := repo.GetByTransactionReference(ctx, "TXN-001")
	require.NoError(t, err)
	require.Equal(t, repair.ID, byRef.ID)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrRepairNotFound)
}

func TestRepairRepo_UpdateOptimisticLock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepairRepository(db)
	ctx := context.Background()

	repair := newRepair("TXN-002")
	require.NoError(t, repo.Create(ctx, repair))

	repair.RepairStatus = entities.RepairStatusInProgress
	require.NoError(t, repo.Update(ctx, repair, 1))
	require.Equal(t, 2, repair.Version)

	stale := newRepair("TXN-002")
	stale.ID = repair.ID
	stale.RepairStatus = entities.RepairStatusResolved
	err := repo.Update(ctx, stale, 1)
	require.ErrorIs(t, err, domainerrors.ErrOptimisticLock)

	reloaded, err := repo.GetByID(ctx, repair.ID)
	require.NoError(t, err)
	require.Equal(t, entities.RepairStatusInProgress, reloaded.RepairStatus)
}

func TestRepairRepo_ListDueForRetryAndTimedOut(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepairRepository(db)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	due := newRepair("TXN-DUE")
	due.NextRetryAt = &past
	require.NoError(t, repo.Create(ctx, due))

	notDue := newRepair("TXN-NOTDUE")
	notDue.NextRetryAt = &future
	require.NoError(t, repo.Create(ctx, notDue))

	timedOut := newRepair("TXN-TIMEOUT")
	timedOut.TimeoutAt = &past
	require.NoError(t, repo.Create(ctx, timedOut))

	dueList, err := repo.ListDueForRetry(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, dueList, 1)
	require.Equal(t, "TXN-DUE", dueList[0].TransactionReference)

	timedOutList, err := repo.ListTimedOut(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, timedOutList, 1)
	require.Equal(t, "TXN-TIMEOUT", timedOutList[0].TransactionReference)
}

func TestRepairRepo_Statistics(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepairRepository(db)
	ctx := context.Background()

	r1 := newRepair("TXN-A")
	require.NoError(t, repo.Create(ctx, r1))
	r2 := newRepair("TXN-B")
	r2.RepairStatus = entities.RepairStatusResolved
	require.NoError(t, repo.Create(ctx, r2))

	stats, err := repo.Statistics(ctx, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 1, stats.Pending)
	require.Equal(t, 1, stats.Resolved)
}
