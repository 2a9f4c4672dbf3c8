package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/corebanking"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/messaging"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
	"github.com/paynet/iso20022-orchestrator/pkg/logger"
)

const (
	healthCheckTickInterval = 30 * time.Second
	healthProbeAccount      = "__health_probe__"
	queueDrainBatchSize     = 50
)

var (
	recoveryTimeSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_recovery_time_seconds",
			Help:    "Wall-clock time between a target going unhealthy and the self-healing monitor observing recovery.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)
	recoveryActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_recovery_actions_total",
			Help: "Recovery actions taken by the self-healing monitor, by target and action.",
		},
		[]string{"target", "action"},
	)
	healthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_health_checks_total",
			Help: "Health probes executed by the self-healing monitor, by target and outcome.",
		},
		[]string{"target", "outcome"},
	)
)

// MustRegisterMonitorMetrics registers the monitor's metric collectors
// against reg. Call once during composition root wiring.
func MustRegisterMonitorMetrics(reg prometheus.Registerer) {
	reg.MustRegister(recoveryTimeSeconds, recoveryActionsTotal, healthChecksTotal)
}

// MonitorUsecase implements C9: periodic health polling of every core
// banking target, circuit breaker reset and queued-message replay on
// recovery, and on-demand recovery/retry operations for the operational API.
type MonitorUsecase struct {
	tenantRepo      repositories.TenantRepository
	coreBankingRepo repositories.CoreBankingConfigRepository
	queueRepo       repositories.QueuedMessageRepository
	adapterFactory  *corebanking.AdapterFactory
	envelope        *resiliency.Envelope
	publisher       messaging.RecoveryEventPublisher
	rules           map[string]entities.AutoHealRule // keyed by bank code; "" is the default rule

	mu          sync.Mutex
	health      map[string]*entities.TargetHealth // keyed by tenantID+"/"+bankCode
	unhealthySince map[string]time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewMonitorUsecase constructs a MonitorUsecase. rules maps bank code to its
// auto-heal policy; an entry keyed "" supplies the default for targets
// without a specific rule.
func NewMonitorUsecase(
	tenantRepo repositories.TenantRepository,
	coreBankingRepo repositories.CoreBankingConfigRepository,
	queueRepo repositories.QueuedMessageRepository,
	adapterFactory *corebanking.AdapterFactory,
	envelope *resiliency.Envelope,
	publisher messaging.RecoveryEventPublisher,
	rules map[string]entities.AutoHealRule,
) *MonitorUsecase {
	if rules == nil {
		rules = map[string]entities.AutoHealRule{}
	}
	return &MonitorUsecase{
		tenantRepo:      tenantRepo,
		coreBankingRepo: coreBankingRepo,
		queueRepo:       queueRepo,
		adapterFactory:  adapterFactory,
		envelope:        envelope,
		publisher:       publisher,
		rules:           rules,
		health:          make(map[string]*entities.TargetHealth),
		unhealthySince:  make(map[string]time.Time),
		stop:            make(chan struct{}),
	}
}

// StartMonitoring launches the fixed-tick background loop. It does not check
// for a loop already running: each call starts another one. Callers control
// lifetime with the provided context plus StopMonitoring.
func (u *MonitorUsecase) StartMonitoring(ctx context.Context) {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		logger.Info(ctx, "starting self-healing monitor", zap.Duration("interval", healthCheckTickInterval))
		ticker := time.NewTicker(healthCheckTickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info(ctx, "self-healing monitor stopped (context cancelled)")
				return
			case <-u.stop:
				logger.Info(ctx, "self-healing monitor stopped")
				return
			case <-ticker.C:
				u.runCycle(ctx)
			}
		}
	}()
}

// StopMonitoring halts the background loop without requiring context
// cancellation, and waits for it to exit.
func (u *MonitorUsecase) StopMonitoring() {
	close(u.stop)
	u.wg.Wait()
}

func (u *MonitorUsecase) runCycle(ctx context.Context) {
	tenants, err := u.tenantRepo.List(ctx)
	if err != nil {
		logger.Error(ctx, "monitor tick: failed listing tenants", zap.Error(err))
		return
	}
	for _, tenant := range tenants {
		if _, err := u.PerformHealthChecks(ctx, tenant.ID); err != nil {
			logger.Error(ctx, "monitor tick: health check failed", zap.String("tenantId", tenant.ID), zap.Error(err))
		}
	}
}

// PerformHealthChecks probes every core banking target configured for
// tenantID and returns their current health. A target observed transitioning
// unhealthy -> healthy triggers RecoverService.
func (u *MonitorUsecase) PerformHealthChecks(ctx context.Context, tenantID string) ([]*entities.TargetHealth, error) {
	configs, err := u.coreBankingRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	results := make([]*entities.TargetHealth, 0, len(configs))
	for _, cfg := range configs {
		if !cfg.Active {
			continue
		}
		results = append(results, u.probeTarget(ctx, tenantID, cfg))
	}
	return results, nil
}

func (u *MonitorUsecase) probeTarget(ctx context.Context, tenantID string, cfg *entities.CoreBankingConfig) *entities.TargetHealth {
	key := healthKey(tenantID, cfg.BankCode)

	adapter, adapterErr := u.adapterFactory.Get(cfg)
	policy := resiliency.DefaultPolicy(cfg.BankCode)
	if cfg.TimeoutMs > 0 {
		policy.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}

	probeErr := adapterErr
	if adapterErr == nil {
		probeErr = u.envelope.Execute(ctx, policy, func(ctx context.Context) error {
			_, err := adapter.GetAccountInfo(ctx, tenantID, healthProbeAccount)
			if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
				return err
			}
			return nil
		})
	}

	healthy := probeErr == nil
	outcome := "healthy"
	if !healthy {
		outcome = "unhealthy"
	}
	healthChecksTotal.WithLabelValues(cfg.BankCode, outcome).Inc()

	u.mu.Lock()
	previous := u.health[key]
	current := &entities.TargetHealth{
		TargetName:    cfg.BankCode,
		TenantID:      tenantID,
		CircuitState:  mapCircuitState(u.envelope.CircuitState(cfg.BankCode)),
		LastCheckedAt: time.Now(),
		Healthy:       healthy,
	}
	if probeErr != nil {
		current.LastError = probeErr.Error()
	}
	if previous != nil && previous.Healthy == healthy {
		if healthy {
			current.ConsecutiveSuccesses = previous.ConsecutiveSuccesses + 1
		} else {
			current.ConsecutiveFailures = previous.ConsecutiveFailures + 1
		}
	} else if healthy {
		current.ConsecutiveSuccesses = 1
	} else {
		current.ConsecutiveFailures = 1
	}
	u.health[key] = current

	wasUnhealthy := previous != nil && !previous.Healthy
	if !healthy {
		if _, tracked := u.unhealthySince[key]; !tracked {
			u.unhealthySince[key] = time.Now()
		}
	}
	since, hadUnhealthySpan := u.unhealthySince[key]
	if healthy {
		delete(u.unhealthySince, key)
	}
	u.mu.Unlock()

	if healthy && wasUnhealthy {
		recoveredSince := time.Time{}
		if hadUnhealthySpan {
			recoveredSince = since
		}
		u.recover(ctx, tenantID, cfg.BankCode, recoveredSince)
	}

	return current
}

// RecoverService runs the full recovery sequence for name/tenantID on
// demand: reset the circuit breaker, drain queued messages, record metrics
// and publish a recovery event. Used both by the automatic unhealthy ->
// healthy transition and by the operator-triggered recovery endpoint.
func (u *MonitorUsecase) RecoverService(ctx context.Context, name, tenantID string) (*entities.TargetHealth, error) {
	u.recover(ctx, tenantID, name, time.Time{})

	u.mu.Lock()
	health := u.health[healthKey(tenantID, name)]
	u.mu.Unlock()
	if health == nil {
		health = &entities.TargetHealth{TargetName: name, TenantID: tenantID, Healthy: true, LastCheckedAt: time.Now()}
	}
	return health, nil
}

func (u *MonitorUsecase) recover(ctx context.Context, tenantID, targetName string, unhealthySince time.Time) {
	actions := make([]string, 0, 2)

	u.envelope.ResetCircuit(targetName)
	actions = append(actions, "RESET_CIRCUIT_BREAKER")
	recoveryActionsTotal.WithLabelValues(targetName, "RESET_CIRCUIT_BREAKER").Inc()

	drained, err := u.ProcessQueuedMessagesForService(ctx, targetName, tenantID)
	if err != nil {
		logger.Error(ctx, "recovery drain failed", zap.String("target", targetName), zap.Error(err))
	} else if drained > 0 {
		actions = append(actions, "DRAIN_QUEUED_MESSAGES")
		recoveryActionsTotal.WithLabelValues(targetName, "DRAIN_QUEUED_MESSAGES").Inc()
	}

	var timeToRecover time.Duration
	if !unhealthySince.IsZero() {
		timeToRecover = time.Since(unhealthySince)
		recoveryTimeSeconds.WithLabelValues(targetName).Observe(timeToRecover.Seconds())
	}

	logger.Info(ctx, "service recovered",
		zap.String("target", targetName),
		zap.String("tenantId", tenantID),
		zap.Duration("timeToRecover", timeToRecover),
		zap.Int("drained", drained),
	)

	if err := u.publisher.PublishRecovery(ctx, messaging.RecoveryEvent{
		ServiceName:   targetName,
		TenantID:      tenantID,
		RecoveredAt:   time.Now(),
		TimeToRecover: timeToRecover,
		ActionsTaken:  actions,
		DrainedCount:  drained,
	}); err != nil {
		logger.Warn(ctx, "failed publishing recovery event", zap.String("target", targetName), zap.Error(err))
	}
}

// ProcessQueuedMessagesForService drains messages queued under topic name for
// tenantID, claiming each with the atomic CAS the repository exposes so
// concurrent drain workers never double-dispatch. A message whose target
// answers through the resiliency envelope is marked delivered; otherwise it
// is re-queued with backoff (or moved to the dead letter state once
// exhausted). Returns the number of messages successfully delivered.
func (u *MonitorUsecase) ProcessQueuedMessagesForService(ctx context.Context, name, tenantID string) (int, error) {
	due, err := u.queueRepo.ListDueByTopic(ctx, name, queueDrainBatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, msg := range due {
		if msg.TenantID != tenantID {
			continue
		}
		claimed, ok, err := u.queueRepo.Claim(ctx, msg.ID)
		if err != nil || !ok {
			continue
		}

		cfg, err := u.coreBankingRepo.GetByTenantAndBank(ctx, tenantID, name)
		if err != nil {
			_ = u.queueRepo.MarkFailed(ctx, claimed.ID, "no core banking config for target: "+err.Error(), retryDelaySeconds(claimed.Attempts))
			continue
		}
		adapter, err := u.adapterFactory.Get(cfg)
		if err != nil {
			_ = u.queueRepo.MarkFailed(ctx, claimed.ID, err.Error(), retryDelaySeconds(claimed.Attempts))
			continue
		}

		policy := resiliency.DefaultPolicy(name)
		deliverErr := u.envelope.Execute(ctx, policy, func(ctx context.Context) error {
			_, err := adapter.GetTransactionStatus(ctx, tenantID, claimed.TransactionReference)
			if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
				return err
			}
			return nil
		})

		if deliverErr != nil {
			_ = u.queueRepo.MarkFailed(ctx, claimed.ID, deliverErr.Error(), retryDelaySeconds(claimed.Attempts))
			continue
		}
		if err := u.queueRepo.MarkDelivered(ctx, claimed.ID); err != nil {
			continue
		}
		delivered++
	}
	return delivered, nil
}

// AutoRetryFailedOperations drains queued work for every target configured
// for tenantID whose auto-heal rule enables automatic retry, returning the
// total number of messages delivered.
func (u *MonitorUsecase) AutoRetryFailedOperations(ctx context.Context, tenantID string) (int, error) {
	configs, err := u.coreBankingRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, cfg := range configs {
		rule := u.ruleFor(cfg.BankCode)
		if !rule.AutoRetryEnabled {
			continue
		}
		drained, err := u.ProcessQueuedMessagesForService(ctx, cfg.BankCode, tenantID)
		if err != nil {
			logger.Error(ctx, "auto-retry drain failed", zap.String("target", cfg.BankCode), zap.Error(err))
			continue
		}
		total += drained
	}
	return total, nil
}

// ResetCircuitBreaker forces name's breaker back to CLOSED for tenantID,
// independent of the automatic health-driven reset.
func (u *MonitorUsecase) ResetCircuitBreaker(ctx context.Context, name, tenantID string) error {
	u.envelope.ResetCircuit(name)
	recoveryActionsTotal.WithLabelValues(name, "MANUAL_RESET_CIRCUIT_BREAKER").Inc()
	logger.Info(ctx, "circuit breaker manually reset", zap.String("target", name), zap.String("tenantId", tenantID))
	return nil
}

func (u *MonitorUsecase) ruleFor(bankCode string) entities.AutoHealRule {
	if rule, ok := u.rules[bankCode]; ok {
		return rule
	}
	if rule, ok := u.rules[""]; ok {
		return rule
	}
	return entities.DefaultAutoHealRule()
}

func healthKey(tenantID, bankCode string) string {
	return tenantID + "/" + bankCode
}

func mapCircuitState(s gobreaker.State) entities.CircuitState {
	switch s {
	case gobreaker.StateOpen:
		return entities.CircuitOpen
	case gobreaker.StateHalfOpen:
		return entities.CircuitHalfOpen
	default:
		return entities.CircuitClosed
	}
}

func retryDelaySeconds(attempts int) int {
	delay := 5
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay > 3600 {
			return 3600
		}
	}
	return delay
}
