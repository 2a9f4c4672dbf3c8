package corebanking

import (
	"fmt"
	"sync"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
)

// AdapterFactory caches one Adapter per (adapterKind, target) pair so
// repeated lookups for the same core banking configuration reuse the same
// connection/client instead of redialing. Grounded on the teacher's
// blockchain.ClientFactory cached-client-by-discriminator pattern.
type AdapterFactory struct {
	envelope *resiliency.Envelope

	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewAdapterFactory constructs an AdapterFactory. envelope is shared by every
// REST adapter it builds, so target state (breaker, rate limiter) persists
// across calls regardless of which tenant's configuration resolves to it.
func NewAdapterFactory(envelope *resiliency.Envelope) *AdapterFactory {
	return &AdapterFactory{envelope: envelope, adapters: make(map[string]Adapter)}
}

// Get resolves cfg onto its Adapter, constructing and caching one on first
// use for this (adapterKind, baseURL/bankCode) pair.
func (f *AdapterFactory) Get(cfg *entities.CoreBankingConfig) (Adapter, error) {
	key := fmt.Sprintf("%s:%s:%s", cfg.AdapterKind, cfg.BankCode, cfg.BaseURL)

	f.mu.RLock()
	if a, ok := f.adapters[key]; ok {
		f.mu.RUnlock()
		return a, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.adapters[key]; ok {
		return a, nil
	}

	var adapter Adapter
	switch cfg.AdapterKind {
	case entities.AdapterKindREST:
		policy := resiliency.DefaultPolicy(cfg.BankCode)
		if cfg.TimeoutMs > 0 {
			policy.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
		}
		adapter = NewRESTAdapter(cfg.BaseURL, f.envelope, policy)
	case entities.AdapterKindGRPC:
		grpcAdapter, err := NewGRPCAdapter(cfg.BaseURL, "corebanking.v1.CoreBankingService")
		if err != nil {
			return nil, fmt.Errorf("dial grpc core banking adapter: %w", err)
		}
		adapter = grpcAdapter
	default:
		adapter = NewInternalAdapter(cfg.BankCode)
	}

	f.adapters[key] = adapter
	return adapter, nil
}

// Register injects/overrides a cached adapter for a specific key. Useful for
// deterministic unit tests.
func (f *AdapterFactory) Register(adapterKind entities.AdapterKind, bankCode, baseURL string, adapter Adapter) {
	key := fmt.Sprintf("%s:%s:%s", adapterKind, bankCode, baseURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adapters[key] = adapter
}
