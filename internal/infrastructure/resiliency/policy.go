// Package resiliency implements the fixed-order protective stack every
// outbound call to a core banking adapter or clearing system passes through:
// rate limiter, circuit breaker, retry, time limiter, bulkhead.
package resiliency

import (
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// Policy is the resolved, in-process form of an entities.ResiliencyConfiguration.
// It carries plain Go durations instead of the entity's millisecond ints so
// the executor never re-derives them on the hot path.
type Policy struct {
	TargetName string

	RateLimiterEnabled  bool
	LimitForPeriod      int
	LimitRefreshPeriod  time.Duration
	RateLimiterTimeout  time.Duration

	CircuitBreakerEnabled    bool
	FailureRateThreshold     float64
	SlidingWindowSize        int
	MinimumNumberOfCalls     int
	WaitDurationInOpenState  time.Duration
	PermittedCallsInHalfOpen int

	RetryEnabled      bool
	MaxAttempts       int
	InitialInterval   time.Duration
	Multiplier        float64
	MaxInterval       time.Duration
	RetryableStatuses map[string]struct{}

	TimeLimiterEnabled bool
	Timeout            time.Duration
	CancelRunning      bool

	BulkheadEnabled    bool
	MaxConcurrentCalls int
	MaxWaitDuration    time.Duration
}

// NewPolicy converts a stored configuration into an executable Policy.
func NewPolicy(cfg *entities.ResiliencyConfiguration) Policy {
	retryable := make(map[string]struct{}, len(cfg.Retry.RetryableStatuses))
	for _, s := range cfg.Retry.RetryableStatuses {
		retryable[s] = struct{}{}
	}

	return Policy{
		TargetName: cfg.TargetName,

		RateLimiterEnabled: cfg.RateLimiter.Enabled,
		LimitForPeriod:     cfg.RateLimiter.LimitForPeriod,
		LimitRefreshPeriod: time.Duration(cfg.RateLimiter.LimitRefreshPeriodMs) * time.Millisecond,
		RateLimiterTimeout: time.Duration(cfg.RateLimiter.TimeoutMs) * time.Millisecond,

		CircuitBreakerEnabled:    cfg.CircuitBreaker.Enabled,
		FailureRateThreshold:     cfg.CircuitBreaker.FailureRateThreshold,
		SlidingWindowSize:        cfg.CircuitBreaker.SlidingWindowSize,
		MinimumNumberOfCalls:     cfg.CircuitBreaker.MinimumNumberOfCalls,
		WaitDurationInOpenState:  time.Duration(cfg.CircuitBreaker.WaitDurationInOpenStateMs) * time.Millisecond,
		PermittedCallsInHalfOpen: cfg.CircuitBreaker.PermittedCallsInHalfOpen,

		RetryEnabled:      cfg.Retry.Enabled,
		MaxAttempts:       cfg.Retry.MaxAttempts,
		InitialInterval:   time.Duration(cfg.Retry.InitialIntervalMs) * time.Millisecond,
		Multiplier:        cfg.Retry.Multiplier,
		MaxInterval:       time.Duration(cfg.Retry.MaxIntervalMs) * time.Millisecond,
		RetryableStatuses: retryable,

		TimeLimiterEnabled: cfg.TimeLimiter.Enabled,
		Timeout:            time.Duration(cfg.TimeLimiter.TimeoutMs) * time.Millisecond,
		CancelRunning:      cfg.TimeLimiter.CancelRunning,

		BulkheadEnabled:    cfg.Bulkhead.Enabled,
		MaxConcurrentCalls: cfg.Bulkhead.MaxConcurrentCalls,
		MaxWaitDuration:    time.Duration(cfg.Bulkhead.MaxWaitDurationMs) * time.Millisecond,
	}
}

// DefaultPolicy returns a conservative policy for targets without a stored
// configuration. Its values are fixed here; it does not read the server's
// resiliency configuration.
func DefaultPolicy(targetName string) Policy {
	return Policy{
		TargetName: targetName,

		RateLimiterEnabled: true,
		LimitForPeriod:     50,
		LimitRefreshPeriod: time.Second,
		RateLimiterTimeout: 100 * time.Millisecond,

		CircuitBreakerEnabled:    true,
		FailureRateThreshold:     0.5,
		SlidingWindowSize:        20,
		MinimumNumberOfCalls:     10,
		WaitDurationInOpenState:  30 * time.Second,
		PermittedCallsInHalfOpen: 3,

		RetryEnabled:    true,
		MaxAttempts:     3,
		InitialInterval: 200 * time.Millisecond,
		Multiplier:      2.0,
		MaxInterval:     5 * time.Second,

		TimeLimiterEnabled: true,
		Timeout:            10 * time.Second,

		BulkheadEnabled:    true,
		MaxConcurrentCalls: 20,
		MaxWaitDuration:    500 * time.Millisecond,
	}
}
