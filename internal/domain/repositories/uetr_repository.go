package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// UETRRepository persists append-only UETR tracking records and serves
// journey/statistics queries over them.
type UETRRepository interface {
	AppendTrackingRecord(ctx context.Context, record *entities.TrackingRecord) error
	GetJourney(ctx context.Context, uetr string) ([]*entities.TrackingRecord, error)
	Search(ctx context.Context, filter entities.UETRSearchFilter) ([]*entities.TrackingRecord, error)
	Statistics(ctx context.Context, tenantID string) (*entities.UETRStatistics, error)
}
