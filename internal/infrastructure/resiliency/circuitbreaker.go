package resiliency

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

// circuitBreakerRegistry lazily builds and caches one gobreaker.CircuitBreaker
// per target name, since a breaker's trip state must persist across calls.
type circuitBreakerRegistry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func newCircuitBreakerRegistry() *circuitBreakerRegistry {
	return &circuitBreakerRegistry{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (r *circuitBreakerRegistry) get(policy Policy) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[policy.TargetName]; ok {
		return cb
	}

	settings := gobreaker.Settings{
		Name:        policy.TargetName,
		MaxRequests: uint32(policy.PermittedCallsInHalfOpen),
		Interval:    time.Duration(policy.SlidingWindowSize) * time.Second,
		Timeout:     policy.WaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(policy.MinimumNumberOfCalls) {
				return false
			}
			rate := float64(counts.TotalFailures) / float64(counts.Requests)
			return rate >= policy.FailureRateThreshold
		},
	}
	cb := gobreaker.NewCircuitBreaker(settings)
	r.breakers[policy.TargetName] = cb
	return cb
}

// State reports the current circuit state for a target, or CLOSED if the
// target has never been called.
func (r *circuitBreakerRegistry) State(targetName string) gobreaker.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[targetName]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

// Reset forces the named breaker back to its zero-value closed state,
// discarding accumulated counts. Used by the self-healing monitor after it
// confirms a target has recovered.
func (r *circuitBreakerRegistry) Reset(targetName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.breakers, targetName)
}

func runWithBreaker(ctx context.Context, reg *circuitBreakerRegistry, policy Policy, op func(context.Context) error) error {
	if !policy.CircuitBreakerEnabled {
		return op(ctx)
	}

	cb := reg.get(policy)
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, op(ctx)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return domainerrors.ErrCircuitOpen
	}
	return err
}
