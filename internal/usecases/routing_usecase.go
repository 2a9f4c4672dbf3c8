package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

// RoutingUsecase resolves a payment instruction onto its clearing route:
// same-bank, other-bank via a named clearing system, incoming clearing, or
// an external system, following a tenant-specific-first resolution order.
type RoutingUsecase struct {
	routingRepo        repositories.RoutingRuleRepository
	clearingSystemRepo repositories.ClearingSystemConfigRepository
	coreBankingRepo    repositories.CoreBankingConfigRepository
}

// NewRoutingUsecase constructs a RoutingUsecase.
func NewRoutingUsecase(
	routingRepo repositories.RoutingRuleRepository,
	clearingSystemRepo repositories.ClearingSystemConfigRepository,
	coreBankingRepo repositories.CoreBankingConfigRepository,
) *RoutingUsecase {
	return &RoutingUsecase{
		routingRepo:        routingRepo,
		clearingSystemRepo: clearingSystemRepo,
		coreBankingRepo:    coreBankingRepo,
	}
}

// RouteMessage resolves req onto a PaymentRoutingResult. sourceBankCode and
// destBankCode are compared, case-insensitively, to decide SAME_BANK vs.
// OTHER_BANK when no explicit rule names a routingType.
func (u *RoutingUsecase) RouteMessage(ctx context.Context, req entities.RouteRequest) (*entities.PaymentRoutingResult, error) {
	rule, err := u.resolveRule(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &entities.PaymentRoutingResult{
		LocalInstrumentCode: req.LocalInstrumentCode,
		PaymentType:         req.PaymentType,
	}

	routingType := entities.RoutingTypeOtherBank
	if rule != nil {
		routingType = rule.RoutingType
	} else if strings.EqualFold(req.SourceBankCode, req.DestBankCode) && req.SourceBankCode != "" {
		routingType = entities.RoutingTypeSameBank
	}
	result.RoutingType = routingType

	switch routingType {
	case entities.RoutingTypeSameBank:
		result.ProcessingMode = entities.ProcessingModeSync
		result.MessageFormat = entities.MessageFormatJSON
		result.RequiresClearingSystem = false
	default:
		result.ProcessingMode = entities.ProcessingModeAsync
		result.MessageFormat = entities.MessageFormatXML
		result.RequiresClearingSystem = true
	}
	if rule != nil && rule.ProcessingMode != "" {
		result.ProcessingMode = rule.ProcessingMode
	}
	if rule != nil && rule.MessageFormat != "" {
		result.MessageFormat = rule.MessageFormat
	}

	if result.RequiresClearingSystem {
		clearingSystemCode := ""
		if rule != nil {
			clearingSystemCode = rule.ClearingSystemCode
		}
		if clearingSystemCode == "" {
			return nil, domainerrors.NewAppError(404, domainerrors.CodeNotFound, "no clearing system found for route", nil)
		}

		clearingSystem, err := u.clearingSystemRepo.GetByCode(ctx, clearingSystemCode)
		if err != nil {
			return nil, err
		}
		if !clearingSystem.Active {
			return nil, domainerrors.NewAppError(409, domainerrors.CodeConflict, "clearing system inactive", nil)
		}

		result.ClearingSystemCode = clearingSystem.Code
		result.ClearingSystemName = clearingSystem.Name
		result.EndpointURL = clearingSystem.EndpointURL
	} else if req.DestBankCode != "" {
		cfg, err := u.coreBankingRepo.GetByTenantAndBank(ctx, req.TenantID, req.DestBankCode)
		if err == nil {
			result.EndpointURL = cfg.BaseURL
			result.AuthMethod = cfg.AuthMethod
		}
	}

	result.SchemeConfigurationID = strings.ToLower(fmt.Sprintf("scheme-%s-%s", orDefault(result.ClearingSystemCode, "internal"), req.MessageType))
	return result, nil
}

// resolveRule applies the tiered lookup: tenant-specific
// (paymentType+localInstrument, then paymentType, then localInstrument),
// then global equivalents. Returns nil, nil when no rule matches, leaving
// the caller to fall back to the same-bank/other-bank bank-code comparison.
func (u *RoutingUsecase) resolveRule(ctx context.Context, req entities.RouteRequest) (*entities.PaymentRoutingRule, error) {
	tenantRules, err := u.routingRepo.ListActiveByTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if rule := matchRule(tenantRules, req.PaymentType, req.LocalInstrumentCode); rule != nil {
		return rule, nil
	}

	globalRules, err := u.routingRepo.ListActiveGlobal(ctx)
	if err != nil {
		return nil, err
	}
	return matchRule(globalRules, req.PaymentType, req.LocalInstrumentCode), nil
}

// matchRule picks the highest-priority rule matching (paymentType AND
// localInstrument), falling back to paymentType-only, then
// localInstrument-only. rules must already be priority-ordered descending.
func matchRule(rules []*entities.PaymentRoutingRule, paymentType, localInstrument string) *entities.PaymentRoutingRule {
	var byBoth, byPaymentType, byLocalInstrument *entities.PaymentRoutingRule
	for _, r := range rules {
		switch {
		case r.PaymentType == paymentType && r.LocalInstrumentCode == localInstrument && byBoth == nil:
			byBoth = r
		case r.PaymentType == paymentType && r.LocalInstrumentCode == "" && byPaymentType == nil:
			byPaymentType = r
		case r.LocalInstrumentCode == localInstrument && r.PaymentType == "" && byLocalInstrument == nil:
			byLocalInstrument = r
		}
	}
	if byBoth != nil {
		return byBoth
	}
	if byPaymentType != nil {
		return byPaymentType
	}
	return byLocalInstrument
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
