package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// RoutingRuleRepository resolves payment routing rules, matched
// tenant-specific first, then by payment type, local instrument, and
// finally a system default.
type RoutingRuleRepository interface {
	Create(ctx context.Context, rule *entities.PaymentRoutingRule) error
	ListActiveByTenant(ctx context.Context, tenantID string) ([]*entities.PaymentRoutingRule, error)
	ListActiveGlobal(ctx context.Context) ([]*entities.PaymentRoutingRule, error)
	Update(ctx context.Context, rule *entities.PaymentRoutingRule) error
}
