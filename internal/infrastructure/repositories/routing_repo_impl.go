package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type routingRuleRepo struct {
	db *gorm.DB
}

// NewRoutingRuleRepository constructs a GORM-backed RoutingRuleRepository.
func NewRoutingRuleRepository(db *gorm.DB) domainrepos.RoutingRuleRepository {
	return &routingRuleRepo{db: db}
}

func (r *routingRuleRepo) Create(ctx context.Context, rule *entities.PaymentRoutingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *routingRuleRepo) ListActiveByTenant(ctx context.Context, tenantID string) ([]*entities.PaymentRoutingRule, error) {
	var rows []*entities.PaymentRoutingRule
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("priority DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *routingRuleRepo) ListActiveGlobal(ctx context.Context) ([]*entities.PaymentRoutingRule, error) {
	var rows []*entities.PaymentRoutingRule
	if err := r.db.WithContext(ctx).
		Where("tenant_id = '' AND active = ?", true).
		Order("priority DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *routingRuleRepo) Update(ctx context.Context, rule *entities.PaymentRoutingRule) error {
	result := r.db.WithContext(ctx).Model(&entities.PaymentRoutingRule{}).Where("id = ?", rule.ID).Updates(rule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
