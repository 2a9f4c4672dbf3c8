package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

func TestUETRRepo_AppendAndGetJourney(t *testing.T) {
	db := newTestDB(t)
	repo := NewUETRRepository(db)
	ctx := context.Background()

	uetr := "20260730120000BANKPACS00800012345678"
	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: uetr, MessageType: "pacs.008", TenantID: "tenant-1",
		Direction: entities.DirectionOutbound, Status: entities.TrackingStatusPending,
	}))
	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: uetr, MessageType: "pacs.002", TenantID: "tenant-1",
		Direction: entities.DirectionInbound, Status: entities.TrackingStatusCompleted,
	}))

	journey, err := repo.GetJourney(ctx, uetr)
	require.NoError(t, err)
	require.Len(t, journey, 2)
	require.Equal(t, entities.TrackingStatusPending, journey[0].Status)
	require.Equal(t, entities.TrackingStatusCompleted, journey[1].Status)
}

func TestUETRRepo_SearchFiltersByTenantAndStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewUETRRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: "uetr-a", TenantID: "tenant-1", MessageType: "pacs.008", Status: entities.TrackingStatusCompleted,
	}))
	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: "uetr-b", TenantID: "tenant-2", MessageType: "pacs.008", Status: entities.TrackingStatusFailed,
	}))

	results, err := repo.Search(ctx, entities.UETRSearchFilter{TenantID: "tenant-1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "uetr-a", results[0].UETR)
}

func TestUETRRepo_StatisticsCountsDistinctUETRs(t *testing.T) {
	db := newTestDB(t)
	repo := NewUETRRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: "uetr-x", TenantID: "tenant-1", MessageType: "pacs.008", Status: entities.TrackingStatusPending,
	}))
	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: "uetr-x", TenantID: "tenant-1", MessageType: "pacs.002", Status: entities.TrackingStatusCompleted,
	}))
	require.NoError(t, repo.AppendTrackingRecord(ctx, &entities.TrackingRecord{
		UETR: "uetr-y", TenantID: "tenant-1", MessageType: "pacs.008", Status: entities.TrackingStatusFailed,
	}))

	stats, err := repo.Statistics(ctx, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 1, stats.Completed)
	require.Equal(t, 1, stats.Failed)
}
