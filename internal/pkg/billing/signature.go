package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputePaymentSignature derives the gateway callback signature:
// hex(HMAC-SHA256(secret, paymentID + "|" + subscriptionID)).
func ComputePaymentSignature(paymentID, subscriptionID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature authenticates a payment callback. Missing fields
// fail before any HMAC is computed. The comparison is constant-time; raw
// secrets are never compared to client-supplied data, only derived
// signatures.
func VerifyPaymentSignature(paymentID, subscriptionID, suppliedSignature, secret string) error {
	if strings.TrimSpace(paymentID) == "" ||
		strings.TrimSpace(subscriptionID) == "" ||
		strings.TrimSpace(suppliedSignature) == "" {
		return ErrMalformedCallback
	}

	supplied, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(suppliedSignature)))
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	if !hmac.Equal(mac.Sum(nil), supplied) {
		return ErrSignatureMismatch
	}
	return nil
}
