package billing

import (
	"context"

	"github.com/finsightlabs/finsight/internal/pkg/razorpay"
)

// Gateway is the slice of the payment gateway the billing service depends
// on. The production implementation is *razorpay.Client.
type Gateway interface {
	CreateSubscription(ctx context.Context, req razorpay.CreateSubscriptionRequest) (*razorpay.Subscription, error)
	FetchSubscription(ctx context.Context, subscriptionID string) (*razorpay.Subscription, error)
	ListSubscriptions(ctx context.Context, count int) ([]razorpay.Subscription, error)
}

// SubscriptionRequest is the ephemeral per-action input for subscription
// creation. It is consumed once and never persisted.
type SubscriptionRequest struct {
	PlanID     string `json:"planId" validate:"required"`
	Interval   string `json:"interval" validate:"required,oneof=monthly yearly"`
	CustomerID string `json:"customerId"`
}

// PaymentCallback is the gateway's payment confirmation, consumed once per
// attempt and discarded after verification.
type PaymentCallback struct {
	PaymentID      string `json:"razorpay_payment_id"`
	SubscriptionID string `json:"razorpay_subscription_id"`
	Signature      string `json:"razorpay_signature"`
}
