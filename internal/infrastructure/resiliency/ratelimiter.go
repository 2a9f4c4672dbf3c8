package resiliency

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

// rateLimiterRegistry caches one token-bucket limiter per target so the
// refill state survives across calls.
type rateLimiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newRateLimiterRegistry() *rateLimiterRegistry {
	return &rateLimiterRegistry{limiters: make(map[string]*rate.Limiter)}
}

func (r *rateLimiterRegistry) get(policy Policy) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lim, ok := r.limiters[policy.TargetName]; ok {
		return lim
	}

	period := policy.LimitRefreshPeriod
	if period <= 0 {
		period = 1
	}
	ratePerSec := float64(policy.LimitForPeriod) / period.Seconds()
	lim := rate.NewLimiter(rate.Limit(ratePerSec), policy.LimitForPeriod)
	r.limiters[policy.TargetName] = lim
	return lim
}

func runWithRateLimiter(ctx context.Context, reg *rateLimiterRegistry, policy Policy, op func(context.Context) error) error {
	if !policy.RateLimiterEnabled {
		return op(ctx)
	}

	waitCtx := ctx
	cancel := func() {}
	if policy.RateLimiterTimeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, policy.RateLimiterTimeout)
	}
	defer cancel()

	lim := reg.get(policy)
	if err := lim.Wait(waitCtx); err != nil {
		return domainerrors.ErrRateLimited
	}
	return op(ctx)
}
