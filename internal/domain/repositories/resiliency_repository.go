package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// ResiliencyConfigRepository resolves the per-target policy bundle applied
// by the resiliency envelope.
type ResiliencyConfigRepository interface {
	GetByTarget(ctx context.Context, tenantID, targetName string) (*entities.ResiliencyConfiguration, error)
	ListActive(ctx context.Context) ([]*entities.ResiliencyConfiguration, error)
	Upsert(ctx context.Context, cfg *entities.ResiliencyConfiguration) error
}
