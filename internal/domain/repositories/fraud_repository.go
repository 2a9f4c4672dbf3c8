package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// FraudConfigRepository resolves priority-ordered fraud/risk configurations
// by strict-wildcard match.
type FraudConfigRepository interface {
	Create(ctx context.Context, cfg *entities.FraudRiskConfiguration) error
	ListActiveByTenant(ctx context.Context, tenantID string) ([]*entities.FraudRiskConfiguration, error)
	Update(ctx context.Context, cfg *entities.FraudRiskConfiguration) error
}

// FraudAssessmentRepository persists per-transaction fraud assessments.
type FraudAssessmentRepository interface {
	Create(ctx context.Context, assessment *entities.FraudRiskAssessment) error
	GetByAssessmentID(ctx context.Context, assessmentID string) (*entities.FraudRiskAssessment, error)
	GetByTransactionReference(ctx context.Context, transactionReference string) (*entities.FraudRiskAssessment, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entities.FraudRiskAssessment, error)
	Update(ctx context.Context, assessment *entities.FraudRiskAssessment) error
}
