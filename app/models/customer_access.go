package models

import "time"

const (
	AccessStatusActive     = "active"
	AccessStatusDelinquent = "delinquent"
)

// CustomerAccess is the per-customer account state derived from payment
// webhooks: either active until expires_at, or delinquent. One row per
// (provider, customer_id), upserted whenever a decision fires.
type CustomerAccess struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Provider      string     `gorm:"type:varchar(20);not null;index:ux_customer_accesses_provider_customer,unique,priority:1" json:"provider"`
	CustomerID    string     `gorm:"type:varchar(191);not null;index:ux_customer_accesses_provider_customer,unique,priority:2" json:"customer_id"`
	Status        string     `gorm:"type:varchar(20);not null;index" json:"status"`
	ExpiresAt     *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	LastEventType string     `gorm:"type:varchar(100)" json:"last_event_type"`
	LastPaymentID string     `gorm:"type:varchar(191)" json:"last_payment_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether access is currently granted at the given instant.
func (a *CustomerAccess) IsActive(now time.Time) bool {
	if a.Status != AccessStatusActive {
		return false
	}
	if a.ExpiresAt == nil {
		return false
	}
	return !now.After(*a.ExpiresAt)
}
