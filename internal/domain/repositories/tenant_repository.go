package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// TenantRepository persists Tenant records. The core reads tenants
// read-through cached; it never mutates tenant business configuration.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entities.Tenant) error
	GetByCode(ctx context.Context, code string) (*entities.Tenant, error)
	GetByID(ctx context.Context, id string) (*entities.Tenant, error)
	List(ctx context.Context) ([]*entities.Tenant, error)
	Update(ctx context.Context, tenant *entities.Tenant) error
}

// ApiKeyRepository persists tenant-scoped API keys.
type ApiKeyRepository interface {
	Create(ctx context.Context, key *entities.ApiKey) error
	GetByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entities.ApiKey, error)
	Revoke(ctx context.Context, id string) error
}

// IdempotencyRepository persists idempotency records backing the HTTP
// boundary's idempotent-submission guarantee.
type IdempotencyRepository interface {
	Get(ctx context.Context, tenantID, transactionReference string) (*entities.IdempotencyRecord, error)
	Save(ctx context.Context, record *entities.IdempotencyRecord) error
	Delete(ctx context.Context, tenantID, transactionReference string) error
}
