package entities

import "time"

// CircuitBreakerConfig controls the sliding-window failure-rate breaker
// guarding calls to a downstream target.
type CircuitBreakerConfig struct {
	Enabled                  bool    `json:"enabled"`
	FailureRateThreshold     float64 `json:"failureRateThreshold"` // 0..1
	SlidingWindowSize        int     `json:"slidingWindowSize"`
	MinimumNumberOfCalls     int     `json:"minimumNumberOfCalls"`
	WaitDurationInOpenStateMs int    `json:"waitDurationInOpenStateMs"`
	PermittedCallsInHalfOpen int     `json:"permittedCallsInHalfOpenState"`
}

// RetryConfig controls exponential-backoff-with-jitter retries.
type RetryConfig struct {
	Enabled            bool     `json:"enabled"`
	MaxAttempts        int      `json:"maxAttempts"`
	InitialIntervalMs  int      `json:"initialIntervalMs"`
	Multiplier         float64  `json:"multiplier"`
	MaxIntervalMs      int      `json:"maxIntervalMs"`
	RetryableStatuses  []string `json:"retryableStatuses,omitempty" gorm:"serializer:json"`
}

// BulkheadConfig bounds concurrent calls to a target.
type BulkheadConfig struct {
	Enabled            bool `json:"enabled"`
	MaxConcurrentCalls int  `json:"maxConcurrentCalls"`
	MaxWaitDurationMs  int  `json:"maxWaitDurationMs"`
}

// TimeLimiterConfig bounds the wall-clock time of a single call.
type TimeLimiterConfig struct {
	Enabled        bool `json:"enabled"`
	TimeoutMs      int  `json:"timeoutMs"`
	CancelRunning  bool `json:"cancelRunningFuture"`
}

// RateLimiterConfig bounds the call rate to a target using a token bucket.
type RateLimiterConfig struct {
	Enabled               bool `json:"enabled"`
	LimitForPeriod        int  `json:"limitForPeriod"`
	LimitRefreshPeriodMs  int  `json:"limitRefreshPeriodMs"`
	TimeoutMs             int  `json:"timeoutMs"`
}

// HealthCheckConfig controls the self-healing monitor's periodic probe of a
// target.
type HealthCheckConfig struct {
	Enabled              bool `json:"enabled"`
	IntervalMs           int  `json:"intervalMs"`
	TimeoutMs            int  `json:"timeoutMs"`
	UnhealthyThreshold   int  `json:"unhealthyThreshold"`
	HealthyThreshold     int  `json:"healthyThreshold"`
}

// ResiliencyConfiguration is the named, per-target policy bundle applied by
// the resiliency envelope, in the fixed stack order: rate limiter, circuit
// breaker, retry, time limiter, bulkhead.
type ResiliencyConfiguration struct {
	ID             string                `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID       string                `json:"tenantId" gorm:"type:varchar(32);index"`
	TargetName     string                `json:"targetName" gorm:"type:varchar(64);index"` // e.g. bank code or clearing system code
	CircuitBreaker CircuitBreakerConfig  `json:"circuitBreaker" gorm:"serializer:json"`
	Retry          RetryConfig           `json:"retry" gorm:"serializer:json"`
	Bulkhead       BulkheadConfig        `json:"bulkhead" gorm:"serializer:json"`
	TimeLimiter    TimeLimiterConfig     `json:"timeLimiter" gorm:"serializer:json"`
	RateLimiter    RateLimiterConfig     `json:"rateLimiter" gorm:"serializer:json"`
	HealthCheck    HealthCheckConfig     `json:"healthCheck" gorm:"serializer:json"`
	Active         bool                  `json:"active" gorm:"default:true"`
	Version        int                   `json:"version"`
}

// CircuitState is the observable state of one target's circuit breaker.
type CircuitState string

const (
	CircuitClosed   CircuitState = "CLOSED"
	CircuitOpen     CircuitState = "OPEN"
	CircuitHalfOpen CircuitState = "HALF_OPEN"
)

// TargetHealth is the self-healing monitor's current view of one target.
type TargetHealth struct {
	TargetName           string       `json:"targetName"`
	TenantID             string       `json:"tenantId"`
	CircuitState         CircuitState `json:"circuitState"`
	ConsecutiveFailures  int          `json:"consecutiveFailures"`
	ConsecutiveSuccesses int          `json:"consecutiveSuccesses"`
	LastCheckedAt        time.Time    `json:"lastCheckedAt"`
	LastError            string       `json:"lastError,omitempty"`
	Healthy              bool         `json:"healthy"`
}

// AutoHealRule is a per-service policy bundle for the self-healing monitor:
// how hard to retry recovery, how fast to retry queued work, and the
// auto-scaling thresholds it reports alongside health (scaling itself is out
// of process scope; the monitor only surfaces the signal).
type AutoHealRule struct {
	MaxRecoveryAttempts     int     `json:"maxRecoveryAttempts"`
	RecoveryIntervalMinutes int     `json:"recoveryIntervalMinutes"`
	AutoRetryEnabled        bool    `json:"autoRetryEnabled"`
	MaxRetryAttempts        int     `json:"maxRetryAttempts"`
	RetryIntervalMinutes    int     `json:"retryIntervalMinutes"`
	AutoScalingEnabled      bool    `json:"autoScalingEnabled"`
	MinInstances            int     `json:"minInstances"`
	MaxInstances            int     `json:"maxInstances"`
	CPUThreshold            float64 `json:"cpuThreshold"`
	MemoryThreshold         float64 `json:"memoryThreshold"`
	ErrorRateThreshold      float64 `json:"errorRateThreshold"`
}

// DefaultAutoHealRule is applied to any target without an explicit rule.
func DefaultAutoHealRule() AutoHealRule {
	return AutoHealRule{
		MaxRecoveryAttempts:     5,
		RecoveryIntervalMinutes: 1,
		AutoRetryEnabled:        true,
		MaxRetryAttempts:        5,
		RetryIntervalMinutes:    1,
		AutoScalingEnabled:      false,
		MinInstances:            1,
		MaxInstances:            1,
		CPUThreshold:            0.8,
		MemoryThreshold:         0.8,
		ErrorRateThreshold:      0.5,
	}
}
