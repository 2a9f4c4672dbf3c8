package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type uetrRepo struct {
	db *gorm.DB
}

// NewUETRRepository constructs a GORM-backed UETRRepository. Tracking
// records are append-only: AppendTrackingRecord never updates a row.
func NewUETRRepository(db *gorm.DB) domainrepos.UETRRepository {
	return &uetrRepo{db: db}
}

func (r *uetrRepo) AppendTrackingRecord(ctx context.Context, record *entities.TrackingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *uetrRepo) GetJourney(ctx context.Context, uetr string) ([]*entities.TrackingRecord, error) {
	var rows []*entities.TrackingRecord
	if err := r.db.WithContext(ctx).
		Where("uetr = ?", uetr).
		Order("updated_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *uetrRepo) Search(ctx context.Context, filter entities.UETRSearchFilter) ([]*entities.TrackingRecord, error) {
	query := r.db.WithContext(ctx).Model(&entities.TrackingRecord{})
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.MessageType != "" {
		query = query.Where("message_type = ?", filter.MessageType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var rows []*entities.TrackingRecord
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *uetrRepo) Statistics(ctx context.Context, tenantID string) (*entities.UETRStatistics, error) {
	base := r.db.WithContext(ctx).Model(&entities.TrackingRecord{}).Where("tenant_id = ?", tenantID)

	stats := &entities.UETRStatistics{}
	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("uetr").Count(&total).Error; err != nil {
		return nil, err
	}
	stats.Total = int(total)

	var completed, failed, pending int64
	base.Session(&gorm.Session{}).Where("status = ?", entities.TrackingStatusCompleted).Distinct("uetr").Count(&completed)
	base.Session(&gorm.Session{}).Where("status IN ?", []entities.TrackingStatus{entities.TrackingStatusFailed, entities.TrackingStatusRejected}).Distinct("uetr").Count(&failed)
	base.Session(&gorm.Session{}).Where("status IN ?", []entities.TrackingStatus{entities.TrackingStatusPending, entities.TrackingStatusProcessing}).Distinct("uetr").Count(&pending)

	stats.Completed = int(completed)
	stats.Failed = int(failed)
	stats.Pending = int(pending)
	return stats, nil
}
