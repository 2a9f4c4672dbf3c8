package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type resiliencyConfigRepo struct {
	db *gorm.DB
}

// NewResiliencyConfigRepository constructs a GORM-backed
// ResiliencyConfigRepository.
func NewResiliencyConfigRepository(db *gorm.DB) domainrepos.ResiliencyConfigRepository {
	return &resiliencyConfigRepo{db: db}
}

func (r *resiliencyConfigRepo) GetByTarget(ctx context.Context, tenantID, targetName string) (*entities.ResiliencyConfiguration, error) {
	var row entities.ResiliencyConfiguration
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND target_name = ? AND active = ?", tenantID, targetName, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *resiliencyConfigRepo) ListActive(ctx context.Context) ([]*entities.ResiliencyConfiguration, error) {
	var rows []*entities.ResiliencyConfiguration
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *resiliencyConfigRepo) Upsert(ctx context.Context, cfg *entities.ResiliencyConfiguration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
