package billing

import "errors"

// Error taxonomy for the subscription-payment flow. Boundary controllers map
// these to HTTP status codes; internal detail never reaches the client.
var (
	// ErrInvalidPlan marks an unknown (plan, interval) combination. Client
	// input error, never retried.
	ErrInvalidPlan = errors.New("invalid plan or interval")

	// ErrSubscriptionCreation marks a gateway or network failure while
	// creating a subscription. Retries are a user-initiated action.
	ErrSubscriptionCreation = errors.New("failed to create subscription")

	// ErrMalformedCallback marks a payment callback with missing fields,
	// rejected before any signature is computed.
	ErrMalformedCallback = errors.New("malformed payment callback")

	// ErrSignatureMismatch marks an authentication failure. No detail about
	// which part of the signature failed is ever attached.
	ErrSignatureMismatch = errors.New("invalid signature")

	// ErrNoActiveSubscription marks a customer without an entitling
	// subscription on any channel (cache, gateway, mirror).
	ErrNoActiveSubscription = errors.New("no active subscription found")
)
