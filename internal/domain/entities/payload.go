package entities

// MappingType classifies how a schema mapping transforms its target.
type MappingType string

const (
	MappingTypeField          MappingType = "FIELD"
	MappingTypeObject         MappingType = "OBJECT"
	MappingTypeArray          MappingType = "ARRAY"
	MappingTypeNested         MappingType = "NESTED"
	MappingTypeConditional    MappingType = "CONDITIONAL"
	MappingTypeTransformation MappingType = "TRANSFORMATION"
	MappingTypeCustom         MappingType = "CUSTOM"
)

// MappingDirection says which side of an endpoint call a mapping applies to.
type MappingDirection string

const (
	MappingDirectionRequest      MappingDirection = "REQUEST"
	MappingDirectionResponse     MappingDirection = "RESPONSE"
	MappingDirectionBidirectional MappingDirection = "BIDIRECTIONAL"
)

// FieldMapping is one entry of a mapping's fieldMappings map. Source is a dot
// path into the source payload; Transformation names an elementwise rule from
// TransformationRules; Default is used when Source resolves to nothing.
type FieldMapping struct {
	Target         string      `json:"target"`
	Source         string      `json:"source"`
	Transformation string      `json:"transformation,omitempty"`
	Default        interface{} `json:"default,omitempty"`
}

// ConditionalMapping writes Target with Value when Condition evaluates true.
type ConditionalMapping struct {
	SourcePath string      `json:"sourcePath"`
	Operator   string      `json:"operator"` // eq, ne, in, and, or
	Value      interface{} `json:"value"`
	Operands   []ConditionalMapping `json:"operands,omitempty"` // for and/or
	Target     string      `json:"target"`
	MappedValue interface{} `json:"mappedValue"`
}

// ValidationRule asserts a constraint on the transformed target.
type ValidationRule struct {
	Path      string `json:"path"`
	Required  bool   `json:"required,omitempty"`
	Type      string `json:"type,omitempty"` // string, number, integer, boolean, array, object
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// ValidationError is a single failed ValidationRule.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of running all ValidationRules.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// PayloadSchemaMapping is the full transformation recipe for one
// (endpointConfigId, mappingName, direction).
type PayloadSchemaMapping struct {
	ID                  string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EndpointConfigID    string               `json:"endpointConfigId" gorm:"type:varchar(36);index"`
	MappingName         string               `json:"mappingName" gorm:"type:varchar(64);index"`
	MappingType         MappingType          `json:"mappingType"`
	Direction           MappingDirection     `json:"direction"`
	FieldMappings       []FieldMapping       `json:"fieldMappings" gorm:"serializer:json"`
	ValidationRules     []ValidationRule     `json:"validationRules" gorm:"serializer:json"`
	DefaultValues       map[string]interface{} `json:"defaultValues" gorm:"serializer:json"`
	ConditionalMappings []ConditionalMapping `json:"conditionalMappings" gorm:"serializer:json"`
	Version             int                  `json:"version"`
	Priority            int                  `json:"priority"`
	Active              bool                 `json:"active" gorm:"default:true"`
}

// EndpointConfig is the per-endpoint dispatch configuration hanging off a
// CoreBankingConfig.
type EndpointConfig struct {
	ID                  string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CoreBankingConfigID string `json:"coreBankingConfigId" gorm:"type:varchar(36);index"`
	EndpointType        string `json:"endpointType"`
	HTTPMethod          string `json:"httpMethod"`
	Path                string `json:"path"`
	TimeoutMs           int    `json:"timeoutMs"`
	RetryAttempts       int    `json:"retryAttempts"`
	Priority            int    `json:"priority"`
}
