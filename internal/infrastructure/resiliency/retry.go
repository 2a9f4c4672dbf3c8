package resiliency

import (
	"context"
	"errors"
	"time"

	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

// runWithRetry retries op with exponential backoff up to MaxAttempts total
// attempts. It never retries a context cancellation or an ErrCircuitOpen
// returned by op: an open circuit is a terminal decision for this call. In
// the envelope's stack order the retry loop itself runs inside the circuit
// breaker.
func runWithRetry(ctx context.Context, policy Policy, op func(context.Context) error) error {
	if !policy.RetryEnabled {
		return op(ctx)
	}

	interval := policy.InitialInterval
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, domainerrors.ErrCircuitOpen) || ctx.Err() != nil {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		interval = time.Duration(float64(interval) * policy.Multiplier)
		if policy.MaxInterval > 0 && interval > policy.MaxInterval {
			interval = policy.MaxInterval
		}
	}
	return lastErr
}
