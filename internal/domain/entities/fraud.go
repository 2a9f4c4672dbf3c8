package entities

import "time"

// PaymentSource says which side of the rail originated the payment.
type PaymentSource string

const (
	PaymentSourceBankClient     PaymentSource = "BANK_CLIENT"
	PaymentSourceClearingSystem PaymentSource = "CLEARING_SYSTEM"
	PaymentSourceBoth           PaymentSource = "BOTH"
)

// RiskAssessmentType selects how a fraud configuration is evaluated.
type RiskAssessmentType string

const (
	RiskAssessmentRealTime RiskAssessmentType = "REAL_TIME"
	RiskAssessmentBatch    RiskAssessmentType = "BATCH"
	RiskAssessmentHybrid   RiskAssessmentType = "HYBRID"
	RiskAssessmentCustom   RiskAssessmentType = "CUSTOM"
)

// RiskLevel is derived from RiskScore.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Decision is the terminal output of the fraud pipeline.
type Decision string

const (
	DecisionApprove      Decision = "APPROVE"
	DecisionReject       Decision = "REJECT"
	DecisionManualReview Decision = "MANUAL_REVIEW"
	DecisionHold         Decision = "HOLD"
	DecisionEscalate     Decision = "ESCALATE"
)

// DeriveRiskLevel maps a [0,1] risk score onto its risk level band.
func DeriveRiskLevel(score float64) RiskLevel {
	switch {
	case score < 0.3:
		return RiskLevelLow
	case score < 0.6:
		return RiskLevelMedium
	case score < 0.8:
		return RiskLevelHigh
	default:
		return RiskLevelCritical
	}
}

// RiskRule is a single expression evaluated against paymentData, contributing
// a weighted risk factor.
type RiskRule struct {
	Name      string  `json:"name"`
	Field     string  `json:"field"`
	Operator  string  `json:"operator"` // gt, gte, lt, lte, eq, ne, in, contains
	Value     interface{} `json:"value"`
	Weight    float64 `json:"weight"`
}

// ThresholdRule maps a risk-score cutoff onto a decision.
type ThresholdRule struct {
	MinScore float64  `json:"minScore"`
	Decision Decision `json:"decision"`
	RiskLevel RiskLevel `json:"riskLevel"`
}

// DecisionCriterion is a small expression-tree node evaluated over risk
// factors collected so far; the first matching criterion wins.
type DecisionCriterion struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
	Decision Decision    `json:"decision"`
}

// ExternalAPIConfig describes the optional external fraud-scoring call. The
// RequestTemplate/ResponseMapping are carried as opaque maps: the schema
// varies per provider and must pass through unchanged.
type ExternalAPIConfig struct {
	URL             string                 `json:"url"`
	Method          string                 `json:"method"`
	TimeoutMs       int                    `json:"timeoutMs"`
	RequestTemplate map[string]interface{} `json:"requestTemplate" gorm:"serializer:json"`
	Headers         map[string]string      `json:"headers" gorm:"serializer:json"`
}

// FallbackConfig decides the outcome when the external API call fails.
type FallbackConfig struct {
	Decision  Decision  `json:"decision"`
	RiskLevel RiskLevel `json:"riskLevel"`
	Reason    string    `json:"reason"`
}

// FraudRiskConfiguration is a priority-ordered rule set matched by strict
// wildcarding over (tenantId, paymentType, localInstrumentCode,
// clearingSystemCode, paymentSource); null qualifiers act as wildcards.
type FraudRiskConfiguration struct {
	ID                  string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ConfigurationName   string              `json:"configurationName"`
	TenantID            string              `json:"tenantId" gorm:"type:varchar(32);index"`
	PaymentType         *string             `json:"paymentType,omitempty"`
	LocalInstrumentCode *string             `json:"localInstrumentCode,omitempty"`
	ClearingSystemCode  *string             `json:"clearingSystemCode,omitempty"`
	PaymentSource       PaymentSource       `json:"paymentSource"`
	RiskAssessmentType  RiskAssessmentType  `json:"riskAssessmentType"`
	ExternalAPIConfig   *ExternalAPIConfig  `json:"externalApiConfig,omitempty" gorm:"serializer:json"`
	RiskRules           []RiskRule          `json:"riskRules,omitempty" gorm:"serializer:json"`
	DecisionCriteria    []DecisionCriterion `json:"decisionCriteria,omitempty" gorm:"serializer:json"`
	Thresholds          []ThresholdRule     `json:"thresholds,omitempty" gorm:"serializer:json"`
	FallbackConfig      *FallbackConfig     `json:"fallbackConfig,omitempty" gorm:"serializer:json"`
	Priority            int                 `json:"priority"`
	Enabled             bool                `json:"enabled"`
	Version             int                 `json:"version"`
}

// AssessmentStatus is the lifecycle status of a FraudRiskAssessment.
type AssessmentStatus string

const (
	AssessmentStatusPending    AssessmentStatus = "PENDING"
	AssessmentStatusInProgress AssessmentStatus = "IN_PROGRESS"
	AssessmentStatusCompleted  AssessmentStatus = "COMPLETED"
	AssessmentStatusError      AssessmentStatus = "ERROR"
	AssessmentStatusCancelled  AssessmentStatus = "CANCELLED"
)

// FraudRiskAssessment is the per-transaction result of running the pipeline.
type FraudRiskAssessment struct {
	AssessmentID             string           `json:"assessmentId" gorm:"primaryKey;type:varchar(36)"`
	TransactionReference     string           `json:"transactionReference" gorm:"type:varchar(64);index"`
	TenantID                 string           `json:"tenantId" gorm:"type:varchar(32);index"`
	Status                   AssessmentStatus `json:"status"`
	RiskScore                float64          `json:"riskScore"`
	RiskLevel                RiskLevel        `json:"riskLevel"`
	Decision                 Decision         `json:"decision"`
	DecisionReason           string           `json:"decisionReason"`
	ExternalAPIResponseTimeMs int64           `json:"externalApiResponseTimeMs,omitempty"`
	ProcessingTimeMs         int64            `json:"processingTimeMs"`
	AssessedAt               time.Time        `json:"assessedAt"`
	ExpiresAt                *time.Time       `json:"expiresAt,omitempty"`
	RetryCount               int              `json:"retryCount"`
}

// PaymentData is the opaque bag of attributes risk rules evaluate against.
type PaymentData map[string]interface{}
