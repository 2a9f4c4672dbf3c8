package entities

import "time"

// RepairType classifies why a transaction needed corrective action.
type RepairType string

const (
	RepairTypeDebitFailed    RepairType = "DEBIT_FAILED"
	RepairTypeCreditFailed   RepairType = "CREDIT_FAILED"
	RepairTypeDebitTimeout   RepairType = "DEBIT_TIMEOUT"
	RepairTypeCreditTimeout  RepairType = "CREDIT_TIMEOUT"
	RepairTypeManualReview   RepairType = "MANUAL_REVIEW"
	RepairTypeSystemError    RepairType = "SYSTEM_ERROR"
	RepairTypePartialSuccess RepairType = "PARTIAL_SUCCESS"
)

// RepairStatus is the repair lifecycle. Terminal states are immutable.
type RepairStatus string

const (
	RepairStatusPending    RepairStatus = "PENDING"
	RepairStatusAssigned   RepairStatus = "ASSIGNED"
	RepairStatusInProgress RepairStatus = "IN_PROGRESS"
	RepairStatusResolved   RepairStatus = "RESOLVED"
	RepairStatusFailed     RepairStatus = "FAILED"
	RepairStatusCancelled  RepairStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are permitted.
func (s RepairStatus) IsTerminal() bool {
	switch s {
	case RepairStatusResolved, RepairStatusFailed, RepairStatusCancelled:
		return true
	default:
		return false
	}
}

// LegStatus is the observed outcome of one leg (debit or credit) of a payment.
type LegStatus string

const (
	LegStatusUnknown LegStatus = ""
	LegStatusSuccess LegStatus = "SUCCESS"
	LegStatusFailed  LegStatus = "FAILED"
	LegStatusTimeout LegStatus = "TIMEOUT"
)

// CorrectiveAction is the closed set of operator/automated actions a repair
// can undergo.
type CorrectiveAction string

const (
	ActionRetryDebit       CorrectiveAction = "RETRY_DEBIT"
	ActionRetryCredit      CorrectiveAction = "RETRY_CREDIT"
	ActionRetryBoth        CorrectiveAction = "RETRY_BOTH"
	ActionReverseDebit     CorrectiveAction = "REVERSE_DEBIT"
	ActionReverseCredit    CorrectiveAction = "REVERSE_CREDIT"
	ActionReverseBoth      CorrectiveAction = "REVERSE_BOTH"
	ActionManualDebit      CorrectiveAction = "MANUAL_DEBIT"
	ActionManualCredit     CorrectiveAction = "MANUAL_CREDIT"
	ActionManualBoth       CorrectiveAction = "MANUAL_BOTH"
	ActionCancelTransaction CorrectiveAction = "CANCEL_TRANSACTION"
	ActionEscalate         CorrectiveAction = "ESCALATE"
	ActionNoAction         CorrectiveAction = "NO_ACTION"
)

// TransactionRepair is a payment whose debit/credit lifecycle ended in a
// non-terminal or partially-failed state and requires corrective action.
type TransactionRepair struct {
	ID                   string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TransactionReference string           `json:"transactionReference" gorm:"type:varchar(64);index;not null"`
	ParentTransactionID  string           `json:"parentTransactionId,omitempty"`
	TenantID             string           `json:"tenantId" gorm:"type:varchar(32);index"`
	RepairType           RepairType       `json:"repairType"`
	RepairStatus         RepairStatus     `json:"repairStatus"`
	FromAccount          string           `json:"fromAccount"`
	ToAccount            string           `json:"toAccount"`
	Amount               float64          `json:"amount"`
	Currency             string           `json:"currency"`
	DebitStatus          LegStatus        `json:"debitStatus"`
	CreditStatus         LegStatus        `json:"creditStatus"`
	DebitReference       string           `json:"debitReference,omitempty"`
	RetryCount           int              `json:"retryCount"`
	MaxRetries           int              `json:"maxRetries"`
	NextRetryAt          *time.Time       `json:"nextRetryAt,omitempty"`
	TimeoutAt            *time.Time       `json:"timeoutAt,omitempty"`
	Priority             int              `json:"priority"`
	AssignedTo           string           `json:"assignedTo,omitempty"`
	CorrectiveAction     CorrectiveAction `json:"correctiveAction,omitempty"`
	AwaitingVerification bool             `json:"awaitingVerification"`
	ResolutionNotes      string           `json:"resolutionNotes,omitempty"`
	ResolvedBy           string           `json:"resolvedBy,omitempty"`
	ResolvedAt           *time.Time       `json:"resolvedAt,omitempty"`
	Version              int              `json:"version"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// IsHighPriority reports whether this repair belongs in the fast lane.
func (r *TransactionRepair) IsHighPriority() bool {
	return r.Priority >= 8
}

// RepairFilter narrows a List call.
type RepairFilter struct {
	TenantID     string
	RepairStatus RepairStatus
	RepairType   RepairType
	HighPriority bool
}

// RepairStatistics summarizes a tenant's repair queue.
type RepairStatistics struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	InProgress  int `json:"inProgress"`
	Resolved    int `json:"resolved"`
	Failed      int `json:"failed"`
	HighPriority int `json:"highPriority"`
}
