package models

import "time"

// PaymentEvent persists one gateway payment callback. The unique payment id
// makes recording idempotent: redelivered callbacks never reprocess.
type PaymentEvent struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	ProviderPaymentID      string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_payment_id"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);not null;index" json:"provider_subscription_id"`
	SignatureValid         bool       `gorm:"default:false" json:"signature_valid"`
	PayloadJSON            string     `gorm:"type:longtext" json:"payload_json"`
	ProcessedAt            *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError        string     `gorm:"type:text" json:"processing_error,omitempty"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
