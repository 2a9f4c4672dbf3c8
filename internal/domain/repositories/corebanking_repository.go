package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// CoreBankingConfigRepository resolves per (tenantId, bankCode) adapter
// bindings. Active configurations with the highest priority win ties.
type CoreBankingConfigRepository interface {
	Create(ctx context.Context, cfg *entities.CoreBankingConfig) error
	GetByTenantAndBank(ctx context.Context, tenantID, bankCode string) (*entities.CoreBankingConfig, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entities.CoreBankingConfig, error)
	Update(ctx context.Context, cfg *entities.CoreBankingConfig) error
}

// ClearingSystemConfigRepository resolves clearing network bindings.
type ClearingSystemConfigRepository interface {
	GetByCode(ctx context.Context, code string) (*entities.ClearingSystemConfig, error)
	ListActive(ctx context.Context) ([]*entities.ClearingSystemConfig, error)
	Upsert(ctx context.Context, cfg *entities.ClearingSystemConfig) error
}

// EndpointConfigRepository resolves per-endpoint dispatch configuration
// hanging off a CoreBankingConfig.
type EndpointConfigRepository interface {
	GetByID(ctx context.Context, id string) (*entities.EndpointConfig, error)
	ListByCoreBankingConfig(ctx context.Context, coreBankingConfigID string) ([]*entities.EndpointConfig, error)
	Upsert(ctx context.Context, cfg *entities.EndpointConfig) error
}
