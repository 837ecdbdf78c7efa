package models

import "time"

const (
	SubscriptionIntervalMonthly = "monthly"
	SubscriptionIntervalYearly  = "yearly"
)

const (
	SubscriptionStatusCreated       = "created"
	SubscriptionStatusAuthenticated = "authenticated"
	SubscriptionStatusActive        = "active"
	SubscriptionStatusHalted        = "halted"
	SubscriptionStatusCancelled     = "cancelled"
	SubscriptionStatusCompleted     = "completed"
	SubscriptionStatusExpired       = "expired"
)

// SubscriptionMirror is a read-only projection of a gateway subscription.
// The gateway owns the record; this row is only ever written from verified
// gateway responses and callbacks, never mutated from user input.
type SubscriptionMirror struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	CustomerID             string     `gorm:"type:varchar(100);not null;index:idx_subscription_mirrors_customer_status,priority:1" json:"customer_id"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_subscription_id"`
	PlanID                 string     `gorm:"type:varchar(100);not null" json:"plan_id"`
	BillingInterval        string     `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing_interval"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'created';index:idx_subscription_mirrors_customer_status,priority:2" json:"status"`
	CurrentPeriodStart     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	AttemptCount           int        `gorm:"default:0" json:"attempt_count"`
	RawPayloadJSON         string     `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the mirrored status entitles access.
func (s *SubscriptionMirror) IsActive() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusAuthenticated:
		return true
	default:
		return false
	}
}
