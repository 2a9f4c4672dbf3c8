package entities

// AdapterKind names the transport a core banking configuration speaks.
type AdapterKind string

const (
	AdapterKindREST     AdapterKind = "REST"
	AdapterKindGRPC     AdapterKind = "GRPC"
	AdapterKindInternal AdapterKind = "INTERNAL"
)

// ProcessingMode governs how the orchestrator dispatches a payment.
type ProcessingMode string

const (
	ProcessingModeSync  ProcessingMode = "SYNC"
	ProcessingModeAsync ProcessingMode = "ASYNC"
	ProcessingModeBatch ProcessingMode = "BATCH"
)

// MessageFormat is the wire encoding used toward a clearing system or adapter.
type MessageFormat string

const (
	MessageFormatJSON MessageFormat = "JSON"
	MessageFormatXML  MessageFormat = "XML"
)

// CoreBankingConfig is the per (tenant, bankCode) adapter binding.
type CoreBankingConfig struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID       string         `json:"tenantId" gorm:"type:varchar(32);index;not null"`
	BankCode       string         `json:"bankCode" gorm:"type:varchar(16);index;not null"`
	AdapterKind    AdapterKind    `json:"adapterKind"`
	BaseURL        string         `json:"baseUrl"`
	AuthMethod     string         `json:"authMethod"`
	ProcessingMode ProcessingMode `json:"processingMode"`
	MessageFormat  MessageFormat  `json:"messageFormat"`
	TimeoutMs      int            `json:"timeoutMs"`
	RetryAttempts  int            `json:"retryAttempts"`
	Priority       int            `json:"priority"`
	Active         bool           `json:"active" gorm:"default:true"`
}

// ClearingSystemConfig is an external interbank settlement network binding.
type ClearingSystemConfig struct {
	Code                      string         `json:"code" gorm:"primaryKey;type:varchar(16)"`
	Name                      string         `json:"name"`
	Country                   string         `json:"country"`
	Currency                  string         `json:"currency"`
	SupportedMessageTypes     []string       `json:"supportedMessageTypes" gorm:"serializer:json"`
	SupportedPaymentTypes     []string       `json:"supportedPaymentTypes" gorm:"serializer:json"`
	SupportedLocalInstruments []string       `json:"supportedLocalInstruments" gorm:"serializer:json"`
	ProcessingMode            ProcessingMode `json:"processingMode"`
	TimeoutSeconds            int            `json:"timeoutSeconds"`
	EndpointURL               string         `json:"endpointUrl"`
	AuthCredentials           string         `json:"-"`
	Active                    bool           `json:"active" gorm:"default:true"`
}

// Account is the minimal shape the orchestrator needs from the core banking
// adapter's account capabilities.
type Account struct {
	AccountNumber string
	BankCode      string
	HolderName    string
	Currency      string
	Balance       float64
	Status        string
}

// TransactionStatus is the normalized result of a debit/credit/transfer call.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusTimeout   TransactionStatus = "TIMEOUT"
)

// TransactionResult is returned by every debit/credit/transfer adapter call.
type TransactionResult struct {
	Reference   string
	Status      TransactionStatus
	BusinessErr string // populated when Status == FAILED for a classified business reason
	RawResponse map[string]interface{}
}
