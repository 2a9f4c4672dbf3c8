package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type payloadMappingRepo struct {
	db *gorm.DB
}

// NewPayloadMappingRepository constructs a GORM-backed PayloadMappingRepository.
func NewPayloadMappingRepository(db *gorm.DB) domainrepos.PayloadMappingRepository {
	return &payloadMappingRepo{db: db}
}

func (r *payloadMappingRepo) Create(ctx context.Context, mapping *entities.PayloadSchemaMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

func (r *payloadMappingRepo) GetActive(ctx context.Context, endpointConfigID, mappingName string, direction entities.MappingDirection) (*entities.PayloadSchemaMapping, error) {
	var row entities.PayloadSchemaMapping
	err := r.db.WithContext(ctx).
		Where("endpoint_config_id = ? AND mapping_name = ? AND direction = ? AND active = ?",
			endpointConfigID, mappingName, direction, true).
		Order("version DESC, priority DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *payloadMappingRepo) ListByEndpoint(ctx context.Context, endpointConfigID string) ([]*entities.PayloadSchemaMapping, error) {
	var rows []*entities.PayloadSchemaMapping
	if err := r.db.WithContext(ctx).
		Where("endpoint_config_id = ?", endpointConfigID).
		Order("priority DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *payloadMappingRepo) Update(ctx context.Context, mapping *entities.PayloadSchemaMapping) error {
	result := r.db.WithContext(ctx).Model(&entities.PayloadSchemaMapping{}).Where("id = ?", mapping.ID).Updates(mapping)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
