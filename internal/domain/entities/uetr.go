package entities

import "time"

// TrackingDirection describes which way a UETR-tagged message travelled.
type TrackingDirection string

const (
	DirectionInbound  TrackingDirection = "INBOUND"
	DirectionOutbound TrackingDirection = "OUTBOUND"
)

// TrackingStatus is the lifecycle status recorded against a UETR at a hop.
type TrackingStatus string

const (
	TrackingStatusPending    TrackingStatus = "PENDING"
	TrackingStatusProcessing TrackingStatus = "PROCESSING"
	TrackingStatusCompleted  TrackingStatus = "COMPLETED"
	TrackingStatusFailed     TrackingStatus = "FAILED"
	TrackingStatusRejected   TrackingStatus = "REJECTED"
	TrackingStatusSettled    TrackingStatus = "SETTLED"
)

// UETRParts is the lossless decomposition of a 36-character UETR.
type UETRParts struct {
	Timestamp14   string
	SystemID4     string
	MessageTypeID string
	Random10      string
}

// TrackingRecord is a single append-only hop in a UETR's journey.
type TrackingRecord struct {
	ID                    uint64            `json:"id" gorm:"primaryKey;autoIncrement"`
	UETR                  string            `json:"uetr" gorm:"type:varchar(36);index;not null"`
	MessageType           string            `json:"messageType" gorm:"type:varchar(8);not null"`
	TenantID              string            `json:"tenantId" gorm:"type:varchar(32);index;not null"`
	TransactionReference  string            `json:"transactionReference" gorm:"type:varchar(64);index"`
	Direction             TrackingDirection `json:"direction"`
	Status                TrackingStatus    `json:"status"`
	StatusReason          string            `json:"statusReason,omitempty"`
	ProcessingSystem      string            `json:"processingSystem,omitempty"`
	Checksum              string            `json:"-"`
	InsertionSeq          uint64            `json:"-" gorm:"-"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// UETRStatistics summarizes a tenant's UETR population over a window.
type UETRStatistics struct {
	Total            int     `json:"total"`
	Completed        int     `json:"completed"`
	Failed           int     `json:"failed"`
	Pending          int     `json:"pending"`
	AvgProcessingMs  float64 `json:"avgProcessingMs"`
}

// UETRSearchFilter narrows a Search call.
type UETRSearchFilter struct {
	TenantID    string
	MessageType string
	Status      TrackingStatus
	From        *time.Time
	To          *time.Time
}
