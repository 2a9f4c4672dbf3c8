package resiliency

import (
	"context"

	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

// runWithTimeLimiter bounds op's wall-clock time. In both modes op's context
// is cancelled at policy.Timeout. When CancelRunning is set the caller waits
// for op to return and reports ErrCallTimeout if it failed after the
// deadline; otherwise op runs in its own goroutine and the caller returns
// ErrCallTimeout as soon as the limit passes.
func runWithTimeLimiter(ctx context.Context, policy Policy, op func(context.Context) error) error {
	if !policy.TimeLimiterEnabled {
		return op(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	if !policy.CancelRunning {
		// op still observes cancellation at policy.Timeout, but we detach
		// waiting for it so a slow downstream doesn't block this goroutine
		// past the limit.
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- op(callCtx) }()
		select {
		case err := <-done:
			return err
		case <-callCtx.Done():
			return domainerrors.ErrCallTimeout
		}
	}
	defer cancel()

	err := op(callCtx)
	if err != nil && callCtx.Err() != nil {
		return domainerrors.ErrCallTimeout
	}
	return err
}
