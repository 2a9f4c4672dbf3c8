package entities

import "time"

// MessageStatus is the lifecycle of a queued message awaiting dispatch or
// redelivery.
type MessageStatus string

const (
	MessageStatusQueued     MessageStatus = "QUEUED"
	MessageStatusProcessing MessageStatus = "PROCESSING"
	MessageStatusDelivered  MessageStatus = "DELIVERED"
	MessageStatusFailed     MessageStatus = "FAILED"
	MessageStatusDeadLetter MessageStatus = "DEAD_LETTER"
)

// QueuedMessage is a durable envelope around a payment event awaiting
// delivery to a downstream topic or adapter, with redelivery bookkeeping.
type QueuedMessage struct {
	ID                   string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID             string        `json:"tenantId" gorm:"type:varchar(32);index"`
	TransactionReference string        `json:"transactionReference" gorm:"type:varchar(64);index"`
	Topic                string        `json:"topic" gorm:"type:varchar(128);index"`
	Payload              []byte        `json:"-" gorm:"type:bytea"`
	Status               MessageStatus `json:"status"`
	Attempts             int           `json:"attempts"`
	MaxAttempts          int           `json:"maxAttempts"`
	NextAttemptAt        *time.Time    `json:"nextAttemptAt,omitempty"`
	LastError            string        `json:"lastError,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// IsExhausted reports whether redelivery attempts have run out.
func (m *QueuedMessage) IsExhausted() bool {
	return m.Attempts >= m.MaxAttempts
}
