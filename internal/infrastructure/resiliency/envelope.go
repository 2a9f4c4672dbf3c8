package resiliency

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/paynet/iso20022-orchestrator/pkg/logger"
)

// Envelope wraps every outbound call to a downstream target in the fixed
// protective stack: rate limiter, circuit breaker, retry, time limiter,
// bulkhead, target. Each stage is keyed by Policy.TargetName so state
// (breaker trip counts, token buckets, in-flight concurrency) persists
// across calls to the same target.
type Envelope struct {
	breakers *circuitBreakerRegistry
	limiters *rateLimiterRegistry
	bulkheads *bulkheadRegistry
}

// NewEnvelope constructs an Envelope with empty per-target registries.
func NewEnvelope() *Envelope {
	return &Envelope{
		breakers:  newCircuitBreakerRegistry(),
		limiters:  newRateLimiterRegistry(),
		bulkheads: newBulkheadRegistry(),
	}
}

// Execute runs op against policy.TargetName through every enabled stage, in
// order: rate limiter -> circuit breaker -> retry -> time limiter ->
// bulkhead -> op. Retry sits inside the circuit breaker, so the breaker
// records the outcome of the whole retry sequence as a single call; the
// bulkhead sits innermost so it only ever bounds concurrency on the op
// itself, not on retries waiting out backoff.
func (e *Envelope) Execute(ctx context.Context, policy Policy, op func(context.Context) error) error {
	start := time.Now()

	wrapped := func(ctx context.Context) error {
		return runWithTimeLimiter(ctx, policy, func(ctx context.Context) error {
			return runWithBulkhead(ctx, e.bulkheads, policy, op)
		})
	}
	withRetry := func(ctx context.Context) error {
		return runWithRetry(ctx, policy, wrapped)
	}
	withBreaker := func(ctx context.Context) error {
		return runWithBreaker(ctx, e.breakers, policy, withRetry)
	}

	err := runWithRateLimiter(ctx, e.limiters, policy, withBreaker)

	callDurationSeconds.WithLabelValues(policy.TargetName).Observe(time.Since(start).Seconds())
	if err != nil {
		callsTotal.WithLabelValues(policy.TargetName, "failure").Inc()
		logger.Warn(ctx, "resiliency envelope call failed", zap.String("target", policy.TargetName), zap.Error(err))
	} else {
		callsTotal.WithLabelValues(policy.TargetName, "success").Inc()
	}
	circuitState.WithLabelValues(policy.TargetName).Set(circuitStateValue(e.breakers.State(policy.TargetName)))

	return err
}

// ResetCircuit forces the named target's breaker back to closed. Used by the
// self-healing monitor once a health probe confirms recovery.
func (e *Envelope) ResetCircuit(targetName string) {
	e.breakers.Reset(targetName)
}

// CircuitState reports the observable state of a target's breaker.
func (e *Envelope) CircuitState(targetName string) gobreaker.State {
	return e.breakers.State(targetName)
}

func circuitStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}
