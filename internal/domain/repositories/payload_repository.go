package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// PayloadMappingRepository resolves payload schema mappings. Per endpoint,
// at most one active mapping per mappingName.
type PayloadMappingRepository interface {
	Create(ctx context.Context, mapping *entities.PayloadSchemaMapping) error
	GetActive(ctx context.Context, endpointConfigID, mappingName string, direction entities.MappingDirection) (*entities.PayloadSchemaMapping, error)
	ListByEndpoint(ctx context.Context, endpointConfigID string) ([]*entities.PayloadSchemaMapping, error)
	Update(ctx context.Context, mapping *entities.PayloadSchemaMapping) error
}
