package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type coreBankingConfigRepo struct {
	db *gorm.DB
}

// NewCoreBankingConfigRepository constructs a GORM-backed
// CoreBankingConfigRepository.
func NewCoreBankingConfigRepository(db *gorm.DB) domainrepos.CoreBankingConfigRepository {
	return &coreBankingConfigRepo{db: db}
}

func (r *coreBankingConfigRepo) Create(ctx context.Context, cfg *entities.CoreBankingConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *coreBankingConfigRepo) GetByTenantAndBank(ctx context.Context, tenantID, bankCode string) (*entities.CoreBankingConfig, error) {
	var row entities.CoreBankingConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND bank_code = ? AND active = ?", tenantID, bankCode, true).
		Order("priority DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *coreBankingConfigRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entities.CoreBankingConfig, error) {
	var rows []*entities.CoreBankingConfig
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("priority DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *coreBankingConfigRepo) Update(ctx context.Context, cfg *entities.CoreBankingConfig) error {
	result := r.db.WithContext(ctx).Model(&entities.CoreBankingConfig{}).Where("id = ?", cfg.ID).Updates(cfg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

type clearingSystemConfigRepo struct {
	db *gorm.DB
}

// NewClearingSystemConfigRepository constructs a GORM-backed
// ClearingSystemConfigRepository.
func NewClearingSystemConfigRepository(db *gorm.DB) domainrepos.ClearingSystemConfigRepository {
	return &clearingSystemConfigRepo{db: db}
}

func (r *clearingSystemConfigRepo) GetByCode(ctx context.Context, code string) (*entities.ClearingSystemConfig, error) {
	var row entities.ClearingSystemConfig
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *clearingSystemConfigRepo) ListActive(ctx context.Context) ([]*entities.ClearingSystemConfig, error) {
	var rows []*entities.ClearingSystemConfig
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *clearingSystemConfigRepo) Upsert(ctx context.Context, cfg *entities.ClearingSystemConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

type endpointConfigRepo struct {
	db *gorm.DB
}

// NewEndpointConfigRepository constructs a GORM-backed EndpointConfigRepository.
func NewEndpointConfigRepository(db *gorm.DB) domainrepos.EndpointConfigRepository {
	return &endpointConfigRepo{db: db}
}

func (r *endpointConfigRepo) GetByID(ctx context.Context, id string) (*entities.EndpointConfig, error) {
	var row entities.EndpointConfig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *endpointConfigRepo) ListByCoreBankingConfig(ctx context.Context, coreBankingConfigID string) ([]*entities.EndpointConfig, error) {
	var rows []*entities.EndpointConfig
	if err := r.db.WithContext(ctx).
		Where("core_banking_config_id = ?", coreBankingConfigID).
		Order("priority DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *endpointConfigRepo) Upsert(ctx context.Context, cfg *entities.EndpointConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
