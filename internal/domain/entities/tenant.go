package entities

import "time"

// TenantStatus gates whether a tenant may submit new work.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is the top-level owner of every configuration the core reads.
// The core never mutates a tenant's business configuration, only reads it.
type Tenant struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Code      string       `json:"code" gorm:"uniqueIndex;type:varchar(32);not null"`
	Name      string       `json:"name" gorm:"type:varchar(120);not null"`
	Status    TenantStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ApiKey authenticates an inbound request to a single tenant. Grounded on the
// teacher's api key entity, narrowed to tenant-level service credentials
// rather than per-user credentials since there are no end-user logins here.
type ApiKey struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID   string     `json:"tenantId" gorm:"type:varchar(32);index;not null"`
	KeyPrefix  string     `json:"keyPrefix" gorm:"type:varchar(20);not null"`
	KeyHash    string     `json:"keyHash" gorm:"type:varchar(64);uniqueIndex;not null"`
	IsActive   bool       `json:"isActive" gorm:"default:true"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// IdempotencyRecord backs idempotent submission at the HTTP boundary.
type IdempotencyRecord struct {
	TransactionReference string    `json:"transactionReference" gorm:"primaryKey;type:varchar(64)"`
	TenantID             string    `json:"tenantId" gorm:"type:varchar(32);index;not null"`
	RequestHash          string    `json:"requestHash" gorm:"type:varchar(64);not null"`
	ResponseSnapshot     string    `json:"responseSnapshot" gorm:"type:text"`
	CreatedAt            time.Time `json:"createdAt"`
	ExpiresAt            time.Time `json:"expiresAt"`
}
