package resiliency

import (
	"context"
	"sync"

	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

// bulkheadRegistry caches one buffered-channel semaphore per target,
// bounding concurrent in-flight calls.
type bulkheadRegistry struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

func newBulkheadRegistry() *bulkheadRegistry {
	return &bulkheadRegistry{sems: make(map[string]chan struct{})}
}

func (r *bulkheadRegistry) get(policy Policy) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sem, ok := r.sems[policy.TargetName]; ok {
		return sem
	}
	size := policy.MaxConcurrentCalls
	if size <= 0 {
		size = 1
	}
	sem := make(chan struct{}, size)
	r.sems[policy.TargetName] = sem
	return sem
}

func runWithBulkhead(ctx context.Context, reg *bulkheadRegistry, policy Policy, op func(context.Context) error) error {
	if !policy.BulkheadEnabled {
		return op(ctx)
	}

	sem := reg.get(policy)
	waitCtx := ctx
	cancel := func() {}
	if policy.MaxWaitDuration > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, policy.MaxWaitDuration)
	}
	defer cancel()

	select {
	case sem <- struct{}{}:
	case <-waitCtx.Done():
		return domainerrors.ErrBulkheadFull
	}
	defer func() { <-sem }()

	return op(ctx)
}
