package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

func TestInMemoryQueuedMessageRepository_EnqueueListClaim(t *testing.T) {
	repo := NewInMemoryQueuedMessageRepository()
	ctx := context.Background()

	msg := &entities.QueuedMessage{
		ID:          "msg-1",
		TenantID:    "tenant-1",
		Topic:       "payments.recovery",
		Payload:     []byte(`{"foo":"bar"}`),
		MaxAttempts: 3,
	}
	require.NoError(t, repo.Enqueue(ctx, msg))

	due, err := repo.ListDueByTopic(ctx, "payments.recovery", 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, entities.MessageStatusQueued, due[0].Status)

	claimed, ok, err := repo.Claim(ctx, "msg-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entities.MessageStatusProcessing, claimed.Status)
	require.Equal(t, 1, claimed.Attempts)

	stillDue, err := repo.ListDueByTopic(ctx, "payments.recovery", 10)
	require.NoError(t, err)
	require.Empty(t, stillDue)
}

func TestInMemoryQueuedMessageRepository_ClaimIsExclusive(t *testing.T) {
	repo := NewInMemoryQueuedMessageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, &entities.QueuedMessage{ID: "race-1", Topic: "t", MaxAttempts: 3}))

	var wg sync.WaitGroup
	results := make([]bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, ok, _ := repo.Claim(ctx, "race-1")
			results[idx] = ok
		}(i)
	}
	wg.Wait()

	successCount := 0
	for _, ok := range results {
		if ok {
			successCount++
		}
	}
	require.Equal(t, 1, successCount)
}

func TestInMemoryQueuedMessageRepository_MarkDeliveredAndFailed(t *testing.T) {
	repo := NewInMemoryQueuedMessageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, &entities.QueuedMessage{ID: "msg-2", Topic: "t", MaxAttempts: 2}))
	_, _, err := repo.Claim(ctx, "msg-2")
	require.NoError(t, err)
	require.NoError(t, repo.MarkDelivered(ctx, "msg-2"))

	require.NoError(t, repo.Enqueue(ctx, &entities.QueuedMessage{ID: "msg-3", Topic: "t", MaxAttempts: 1}))
	claimed, _, err := repo.Claim(ctx, "msg-3")
	require.NoError(t, err)
	require.Equal(t, 1, claimed.Attempts)
	require.NoError(t, repo.MarkFailed(ctx, "msg-3", "adapter timeout", 30))

	due, err := repo.ListDueByTopic(ctx, "t", 10)
	require.NoError(t, err)
	require.Empty(t, due, "dead-lettered message must not be claimable again")
}

func TestInMemoryQueuedMessageRepository_MarkFailedReschedulesWhenNotExhausted(t *testing.T) {
	repo := NewInMemoryQueuedMessageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, &entities.QueuedMessage{ID: "msg-4", Topic: "t", MaxAttempts: 5}))
	_, _, err := repo.Claim(ctx, "msg-4")
	require.NoError(t, err)
	require.NoError(t, repo.MarkFailed(ctx, "msg-4", "transient", 0))

	due, err := repo.ListDueByTopic(ctx, "t", 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, entities.MessageStatusQueued, due[0].Status)
}

func TestInMemoryQueuedMessageRepository_ListDueByTopicRespectsNextAttemptAt(t *testing.T) {
	repo := NewInMemoryQueuedMessageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, &entities.QueuedMessage{ID: "msg-5", Topic: "t", MaxAttempts: 3}))
	_, _, err := repo.Claim(ctx, "msg-5")
	require.NoError(t, err)
	require.NoError(t, repo.MarkFailed(ctx, "msg-5", "retry later", 3600))

	due, err := repo.ListDueByTopic(ctx, "t", 10)
	require.NoError(t, err)
	require.Empty(t, due, "message scheduled an hour out must not be due yet")
}
