package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type fraudConfigRepo struct {
	db *gorm.DB
}

// NewFraudConfigRepository constructs a GORM-backed FraudConfigRepository.
func NewFraudConfigRepository(db *gorm.DB) domainrepos.FraudConfigRepository {
	return &fraudConfigRepo{db: db}
}

func (r *fraudConfigRepo) Create(ctx context.Context, cfg *entities.FraudRiskConfiguration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *fraudConfigRepo) ListActiveByTenant(ctx context.Context, tenantID string) ([]*entities.FraudRiskConfiguration, error) {
	var rows []*entities.FraudRiskConfiguration
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND enabled = ?", tenantID, true).
		Order("priority ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *fraudConfigRepo) Update(ctx context.Context, cfg *entities.FraudRiskConfiguration) error {
	result := r.db.WithContext(ctx).Model(&entities.FraudRiskConfiguration{}).Where("id = ?", cfg.ID).Updates(cfg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

type fraudAssessmentRepo struct {
	db *gorm.DB
}

// NewFraudAssessmentRepository constructs a GORM-backed FraudAssessmentRepository.
func NewFraudAssessmentRepository(db *gorm.DB) domainrepos.FraudAssessmentRepository {
	return &fraudAssessmentRepo{db: db}
}

func (r *fraudAssessmentRepo) Create(ctx context.Context, assessment *entities.FraudRiskAssessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *fraudAssessmentRepo) GetByAssessmentID(ctx context.Context, assessmentID string) (*entities.FraudRiskAssessment, error) {
	var row entities.FraudRiskAssessment
	err := r.db.WithContext(ctx).Where("assessment_id = ?", assessmentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *fraudAssessmentRepo) GetByTransactionReference(ctx context.Context, transactionReference string) (*entities.FraudRiskAssessment, error) {
	var row entities.FraudRiskAssessment
	err := r.db.WithContext(ctx).
		Where("transaction_reference = ?", transactionReference).
		Order("assessed_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *fraudAssessmentRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entities.FraudRiskAssessment, error) {
	var rows []*entities.FraudRiskAssessment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("assessed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *fraudAssessmentRepo) Update(ctx context.Context, assessment *entities.FraudRiskAssessment) error {
	result := r.db.WithContext(ctx).Model(&entities.FraudRiskAssessment{}).Where("assessment_id = ?", assessment.AssessmentID).Updates(assessment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
