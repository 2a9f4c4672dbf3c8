// Package jobs hosts the orchestrator's background schedulers: periodic
// ticker loops started/stopped from the composition root, grounded on the
// teacher's jobs.PaymentRequestExpiryJob shape (ticker + stop channel +
// context cancellation).
package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/pkg/logger"
)

const (
	retryTickInterval    = time.Minute
	timeoutTickInterval  = 5 * time.Minute
	manualReviewPriority = 8
)

// RepairScheduler runs the two background loops a transaction repair queue
// needs: retrying due repairs with exponential backoff, and escalating
// timed-out repairs to manual review. Owns two independent tickers so either
// cadence can be tuned without affecting the other.
type RepairScheduler struct {
	repairRepo repositories.RepairRepository
	retryStop  chan struct{}
	timeoutStop chan struct{}
}

// NewRepairScheduler constructs a RepairScheduler.
func NewRepairScheduler(repairRepo repositories.RepairRepository) *RepairScheduler {
	return &RepairScheduler{
		repairRepo:  repairRepo,
		retryStop:   make(chan struct{}),
		timeoutStop: make(chan struct{}),
	}
}

// Start launches both ticker loops. Each returns when ctx is cancelled or
// Stop is called.
func (s *RepairScheduler) Start(ctx context.Context) {
	go s.runRetryLoop(ctx)
	go s.runTimeoutLoop(ctx)
}

// Stop halts both loops without requiring context cancellation.
func (s *RepairScheduler) Stop() {
	close(s.retryStop)
	close(s.timeoutStop)
}

func (s *RepairScheduler) runRetryLoop(ctx context.Context) {
	logger.Info(ctx, "starting repair retry scheduler", zap.Duration("interval", retryTickInterval))
	ticker := time.NewTicker(retryTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "repair retry scheduler stopped (context cancelled)")
			return
		case <-s.retryStop:
			logger.Info(ctx, "repair retry scheduler stopped")
			return
		case <-ticker.C:
			s.processDueRetries(ctx)
		}
	}
}

func (s *RepairScheduler) runTimeoutLoop(ctx context.Context) {
	logger.Info(ctx, "starting repair timeout scheduler", zap.Duration("interval", timeoutTickInterval))
	ticker := time.NewTicker(timeoutTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "repair timeout scheduler stopped (context cancelled)")
			return
		case <-s.timeoutStop:
			logger.Info(ctx, "repair timeout scheduler stopped")
			return
		case <-ticker.C:
			s.processTimedOut(ctx)
		}
	}
}

func (s *RepairScheduler) processDueRetries(ctx context.Context) {
	due, err := s.repairRepo.ListDueForRetry(ctx, time.Now())
	if err != nil {
		logger.Error(ctx, "failed listing repairs due for retry", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}
	logger.Info(ctx, "rescheduling due repairs", zap.Int("count", len(due)))

	for _, repair := range due {
		expected := repair.Version
		repair.RetryCount++
		delay := nextRetryDelay(repair.RetryCount)
		if repair.RetryCount >= repair.MaxRetries {
			repair.RepairStatus = entities.RepairStatusPending
			repair.Priority = manualReviewPriority
			repair.NextRetryAt = nil
		} else {
			next := time.Now().Add(delay)
			repair.NextRetryAt = &next
		}
		if err := s.repairRepo.Update(ctx, repair, expected); err != nil {
			logger.Error(ctx, "failed rescheduling repair", zap.String("repairId", repair.ID), zap.Error(err))
		}
	}
}

func (s *RepairScheduler) processTimedOut(ctx context.Context) {
	timedOut, err := s.repairRepo.ListTimedOut(ctx, time.Now())
	if err != nil {
		logger.Error(ctx, "failed listing timed-out repairs", zap.Error(err))
		return
	}
	if len(timedOut) == 0 {
		return
	}
	logger.Info(ctx, "escalating timed-out repairs to manual review", zap.Int("count", len(timedOut)))

	for _, repair := range timedOut {
		expected := repair.Version
		repair.RepairType = entities.RepairTypeManualReview
		repair.RepairStatus = entities.RepairStatusPending
		repair.Priority = manualReviewPriority
		repair.TimeoutAt = nil
		if err := s.repairRepo.Update(ctx, repair, expected); err != nil {
			logger.Error(ctx, "failed escalating timed-out repair", zap.String("repairId", repair.ID), zap.Error(err))
		}
	}
}

// nextRetryDelay computes the exponential backoff for the Nth retry, capped
// at 24h, per §4.8: delayMinutes = 5 · 2^retryCount.
func nextRetryDelay(retryCount int) time.Duration {
	minutes := 5.0
	for i := 0; i < retryCount; i++ {
		minutes *= 2
		if minutes > 24*60 {
			minutes = 24 * 60
			break
		}
	}
	return time.Duration(minutes) * time.Minute
}
