package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
)

// AssessmentRequest is the input to FraudUsecase.Assess.
type AssessmentRequest struct {
	TransactionReference string
	TenantID             string
	PaymentType          string
	LocalInstrumentCode  string
	ClearingSystemCode   string
	PaymentSource        entities.PaymentSource
	PaymentData          entities.PaymentData
}

// FraudUsecase implements the C6 fraud/risk pipeline: select applicable
// configurations, evaluate rules/external API/decision criteria/thresholds
// in priority order, and persist the resulting assessment.
type FraudUsecase struct {
	configRepo     repositories.FraudConfigRepository
	assessmentRepo repositories.FraudAssessmentRepository
	envelope       *resiliency.Envelope
	httpClient     *http.Client
	defaultDecision entities.Decision
}

// NewFraudUsecase constructs a FraudUsecase. defaultDecision is used when
// matching configurations produce no terminal decision (MANUAL_REVIEW if it
// is empty); a payment that matches no configuration at all is approved.
func NewFraudUsecase(configRepo repositories.FraudConfigRepository, assessmentRepo repositories.FraudAssessmentRepository, envelope *resiliency.Envelope, defaultDecision entities.Decision) *FraudUsecase {
	return &FraudUsecase{
		configRepo:      configRepo,
		assessmentRepo:  assessmentRepo,
		envelope:        envelope,
		httpClient:      &http.Client{},
		defaultDecision: defaultDecision,
	}
}

// Assess runs the fraud/risk pipeline for req and persists the resulting
// assessment, in status COMPLETED or ERROR.
func (u *FraudUsecase) Assess(ctx context.Context, req AssessmentRequest) (*entities.FraudRiskAssessment, error) {
	start := time.Now()
	assessment := &entities.FraudRiskAssessment{
		AssessmentID:         uuid.NewString(),
		TransactionReference: req.TransactionReference,
		TenantID:             req.TenantID,
		Status:               entities.AssessmentStatusInProgress,
		AssessedAt:           start,
	}
	if err := u.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, err
	}

	configs, err := u.configRepo.ListActiveByTenant(ctx, req.TenantID)
	if err != nil {
		assessment.Status = entities.AssessmentStatusError
		_ = u.assessmentRepo.Update(ctx, assessment)
		return nil, err
	}

	matching := selectMatching(configs, req)
	sort.Slice(matching, func(i, j int) bool { return matching[i].Priority < matching[j].Priority })

	var (
		decision   entities.Decision
		riskScore  float64
		reason     string
		terminal   bool
	)

	for _, cfg := range matching {
		factors := evaluateRiskRules(cfg.RiskRules, req.PaymentData)
		riskScore += factors

		if cfg.ExternalAPIConfig != nil {
			extScore, extDecision, apiErr := u.callExternalAPI(ctx, cfg, req)
			if apiErr == nil {
				riskScore = extScore
				if extDecision != "" {
					decision, reason, terminal = extDecision, "external fraud API decision", true
					break
				}
			} else if cfg.FallbackConfig != nil {
				decision, reason, terminal = cfg.FallbackConfig.Decision, cfg.FallbackConfig.Reason, true
				break
			} else {
				decision, reason, terminal = entities.DecisionManualReview, "external fraud API unavailable, no fallback configured", true
				break
			}
		}

		if d, ok := evaluateDecisionCriteria(cfg.DecisionCriteria, req.PaymentData, riskScore); ok {
			decision, reason, terminal = d, "decision criterion matched", true
			break
		}

		if d, ok := evaluateThresholds(cfg.Thresholds, riskScore); ok {
			decision, reason, terminal = d, "risk score threshold matched", true
			break
		}
	}

	if !terminal {
		if len(matching) == 0 {
			decision, reason = entities.DecisionApprove, "no fraud configuration found"
		} else {
			decision, reason = u.defaultDecision, "no configuration produced a terminal decision"
			if decision == "" {
				decision = entities.DecisionManualReview
			}
		}
	}

	assessment.RiskScore = riskScore
	assessment.RiskLevel = entities.DeriveRiskLevel(riskScore)
	assessment.Decision = decision
	assessment.DecisionReason = reason
	assessment.Status = entities.AssessmentStatusCompleted
	assessment.ProcessingTimeMs = time.Since(start).Milliseconds()

	if err := u.assessmentRepo.Update(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// GetByTransactionReference returns the most recent assessment for a
// transaction reference.
func (u *FraudUsecase) GetByTransactionReference(ctx context.Context, transactionReference string) (*entities.FraudRiskAssessment, error) {
	return u.assessmentRepo.GetByTransactionReference(ctx, transactionReference)
}

// ListAssessments returns every assessment recorded for a tenant.
func (u *FraudUsecase) ListAssessments(ctx context.Context, tenantID string) ([]*entities.FraudRiskAssessment, error) {
	return u.assessmentRepo.ListByTenant(ctx, tenantID)
}

// CreateConfiguration persists a new fraud/risk configuration.
func (u *FraudUsecase) CreateConfiguration(ctx context.Context, cfg *entities.FraudRiskConfiguration) error {
	return u.configRepo.Create(ctx, cfg)
}

// selectMatching filters configs by strict-wildcard match: a nil qualifier
// acts as a wildcard, a non-nil qualifier must equal the request's value.
func selectMatching(configs []*entities.FraudRiskConfiguration, req AssessmentRequest) []*entities.FraudRiskConfiguration {
	var matched []*entities.FraudRiskConfiguration
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if cfg.PaymentType != nil && *cfg.PaymentType != req.PaymentType {
			continue
		}
		if cfg.LocalInstrumentCode != nil && *cfg.LocalInstrumentCode != req.LocalInstrumentCode {
			continue
		}
		if cfg.ClearingSystemCode != nil && *cfg.ClearingSystemCode != req.ClearingSystemCode {
			continue
		}
		if cfg.PaymentSource != "" && cfg.PaymentSource != entities.PaymentSourceBoth && cfg.PaymentSource != req.PaymentSource {
			continue
		}
		matched = append(matched, cfg)
	}
	return matched
}

// evaluateRiskRules sums the weighted contribution of every rule whose
// operator matches against paymentData, clamped to [0,1].
func evaluateRiskRules(rules []entities.RiskRule, data entities.PaymentData) float64 {
	var score float64
	for _, rule := range rules {
		actual, ok := data[rule.Field]
		if !ok {
			continue
		}
		if matchOperator(rule.Operator, actual, rule.Value) {
			score += rule.Weight
		}
	}
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func matchOperator(op string, actual, expected interface{}) bool {
	af, aok := toFloat(actual)
	ef, eok := toFloat(expected)
	switch op {
	case "gt":
		return aok && eok && af > ef
	case "gte":
		return aok && eok && af >= ef
	case "lt":
		return aok && eok && af < ef
	case "lte":
		return aok && eok && af <= ef
	case "eq":
		return toString(actual) == toString(expected)
	case "ne":
		return toString(actual) != toString(expected)
	case "in":
		list, ok := expected.([]interface{})
		if !ok {
			return false
		}
		for _, item := range list {
			if toString(item) == toString(actual) {
				return true
			}
		}
		return false
	case "contains":
		s, ok := actual.(string)
		sub, ok2 := expected.(string)
		return ok && ok2 && contains(s, sub)
	default:
		return false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func contains(s, sub string) bool {
	return len(sub) == 0 || (len(s) >= len(sub) && indexOf(s, sub) >= 0)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// evaluateDecisionCriteria returns the decision of the first criterion whose
// field/operator/value matches against paymentData or the running risk score
// (field "riskScore" is special-cased to compare against score).
func evaluateDecisionCriteria(criteria []entities.DecisionCriterion, data entities.PaymentData, score float64) (entities.Decision, bool) {
	for _, c := range criteria {
		var actual interface{}
		if c.Field == "riskScore" {
			actual = score
		} else {
			actual = data[c.Field]
		}
		if matchOperator(c.Operator, actual, c.Value) {
			return c.Decision, true
		}
	}
	return "", false
}

// evaluateThresholds returns the decision of the highest MinScore threshold
// that score meets or exceeds.
func evaluateThresholds(thresholds []entities.ThresholdRule, score float64) (entities.Decision, bool) {
	var best *entities.ThresholdRule
	for i := range thresholds {
		t := thresholds[i]
		if score >= t.MinScore && (best == nil || t.MinScore > best.MinScore) {
			best = &t
		}
	}
	if best == nil {
		return "", false
	}
	return best.Decision, true
}

// externalAPIResponse is the fixed envelope fraud APIs respond with;
// assessmentDetails is carried through opaque per §4.6.
type externalAPIResponse struct {
	RiskScore         float64                `json:"riskScore"`
	RiskLevel         string                 `json:"riskLevel"`
	Decision          string                 `json:"decision"`
	AssessmentDetails map[string]interface{} `json:"assessmentDetails"`
}

// callExternalAPI builds a request from cfg.ExternalAPIConfig.RequestTemplate
// merged with req.PaymentData, invokes it through the resiliency envelope,
// and returns the response's risk score and decision (empty decision means
// the caller should fall through to decisionCriteria/thresholds).
func (u *FraudUsecase) callExternalAPI(ctx context.Context, cfg *entities.FraudRiskConfiguration, req AssessmentRequest) (float64, entities.Decision, error) {
	apiCfg := cfg.ExternalAPIConfig
	policy := resiliency.DefaultPolicy("fraud-api-" + cfg.ID)
	if apiCfg.TimeoutMs > 0 {
		policy.Timeout = time.Duration(apiCfg.TimeoutMs) * time.Millisecond
	}

	body := map[string]interface{}{}
	for k, v := range apiCfg.RequestTemplate {
		body[k] = v
	}
	for k, v := range req.PaymentData {
		body[k] = v
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return 0, "", err
	}

	var parsed externalAPIResponse
	execErr := u.envelope.Execute(ctx, policy, func(ctx context.Context) error {
		method := apiCfg.Method
		if method == "" {
			method = http.MethodPost
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, apiCfg.URL, bytes.NewReader(encoded))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		for k, v := range apiCfg.Headers {
			httpReq.Header.Set(k, v)
		}
		resp, err := u.httpClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return domainerrors.NewAppError(resp.StatusCode, domainerrors.CodeBusiness, "external fraud API rejected request", nil)
		}
		return json.NewDecoder(resp.Body).Decode(&parsed)
	})
	if execErr != nil {
		return 0, "", execErr
	}
	return parsed.RiskScore, entities.Decision(parsed.Decision), nil
}
