package entities

// RoutingType classifies the clearing path a payment takes.
type RoutingType string

const (
	RoutingTypeSameBank         RoutingType = "SAME_BANK"
	RoutingTypeOtherBank        RoutingType = "OTHER_BANK"
	RoutingTypeIncomingClearing RoutingType = "INCOMING_CLEARING"
	RoutingTypeExternalSystem   RoutingType = "EXTERNAL_SYSTEM"
)

// PaymentRoutingRule is a configured routing decision, matched most specific first.
type PaymentRoutingRule struct {
	ID                  string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID            string         `json:"tenantId" gorm:"type:varchar(32);index"`
	PaymentType          string         `json:"paymentType" gorm:"type:varchar(32);index"`
	LocalInstrumentCode string         `json:"localInstrumentCode" gorm:"type:varchar(16);index"`
	RoutingType         RoutingType    `json:"routingType"`
	ClearingSystemCode  string         `json:"clearingSystemCode,omitempty"`
	ProcessingMode      ProcessingMode `json:"processingMode"`
	MessageFormat       MessageFormat  `json:"messageFormat"`
	Priority            int            `json:"priority"`
	Active              bool           `json:"active" gorm:"default:true"`
}

// PaymentRoutingResult is the router's derived output. Never persisted as
// authoritative; recomputed on every route request.
type PaymentRoutingResult struct {
	RoutingType            RoutingType    `json:"routingType"`
	ClearingSystemCode     string         `json:"clearingSystemCode,omitempty"`
	ClearingSystemName     string         `json:"clearingSystemName,omitempty"`
	LocalInstrumentCode    string         `json:"localInstrumentCode"`
	PaymentType            string         `json:"paymentType"`
	RequiresClearingSystem bool           `json:"requiresClearingSystem"`
	ProcessingMode         ProcessingMode `json:"processingMode"`
	MessageFormat          MessageFormat  `json:"messageFormat"`
	EndpointURL            string         `json:"endpointUrl,omitempty"`
	AuthMethod             string         `json:"authMethod,omitempty"`
	SchemeConfigurationID  string         `json:"schemeConfigurationId"`
}

// RouteRequest is the input to the routing engine.
type RouteRequest struct {
	TenantID            string
	PaymentType         string
	LocalInstrumentCode string
	MessageType         string
	SourceBankCode      string
	DestBankCode        string
}
