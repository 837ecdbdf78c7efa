package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func TestComputePaymentSignatureKnownAnswer(t *testing.T) {
	t.Parallel()

	mac := hmac.New(sha256.New, []byte("s3cr3t"))
	mac.Write([]byte("pay_1|sub_1"))
	want := hex.EncodeToString(mac.Sum(nil))

	got := ComputePaymentSignature("pay_1", "sub_1", "s3cr3t")
	if got != want {
		t.Fatalf("signature = %s, want %s", got, want)
	}
}

func TestVerifyPaymentSignatureRoundTrip(t *testing.T) {
	t.Parallel()

	sig := ComputePaymentSignature("pay_1", "sub_1", "s3cr3t")
	if err := VerifyPaymentSignature("pay_1", "sub_1", sig, "s3cr3t"); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyPaymentSignatureIsDeterministic(t *testing.T) {
	t.Parallel()

	sig := ComputePaymentSignature("pay_9", "sub_9", "secret")
	for i := 0; i < 10; i++ {
		if err := VerifyPaymentSignature("pay_9", "sub_9", sig, "secret"); err != nil {
			t.Fatalf("iteration %d: valid signature rejected: %v", i, err)
		}
	}
}

func TestVerifyPaymentSignatureSingleBitMutation(t *testing.T) {
	t.Parallel()

	sig := ComputePaymentSignature("pay_1", "sub_1", "s3cr3t")
	raw, err := hex.DecodeString(sig)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01

		err := VerifyPaymentSignature("pay_1", "sub_1", hex.EncodeToString(mutated), "s3cr3t")
		if !errors.Is(err, ErrSignatureMismatch) {
			t.Fatalf("byte %d: mutated signature accepted, err = %v", i, err)
		}
	}
}

func TestVerifyPaymentSignatureRejections(t *testing.T) {
	t.Parallel()

	sig := ComputePaymentSignature("pay_1", "sub_1", "s3cr3t")

	tests := []struct {
		name           string
		paymentID      string
		subscriptionID string
		signature      string
		secret         string
		want           error
	}{
		{"empty payment id", "", "sub_1", sig, "s3cr3t", ErrMalformedCallback},
		{"empty subscription id", "pay_1", "", sig, "s3cr3t", ErrMalformedCallback},
		{"empty signature", "pay_1", "sub_1", "", "s3cr3t", ErrMalformedCallback},
		{"blank signature", "pay_1", "sub_1", "   ", "s3cr3t", ErrMalformedCallback},
		{"not hex", "pay_1", "sub_1", "zz_not_hex", "s3cr3t", ErrSignatureMismatch},
		{"static wrong value", "pay_1", "sub_1", "deadbeef", "s3cr3t", ErrSignatureMismatch},
		{"wrong secret", "pay_1", "sub_1", sig, "other", ErrSignatureMismatch},
		{"swapped ids", "sub_1", "pay_1", sig, "s3cr3t", ErrSignatureMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyPaymentSignature(tc.paymentID, tc.subscriptionID, tc.signature, tc.secret)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestVerifyPaymentSignatureAcceptsUppercaseHex(t *testing.T) {
	t.Parallel()

	sig := ComputePaymentSignature("pay_1", "sub_1", "s3cr3t")
	upper := ""
	for _, r := range sig {
		if r >= 'a' && r <= 'f' {
			upper += string(r - 32)
		} else {
			upper += string(r)
		}
	}

	if err := VerifyPaymentSignature("pay_1", "sub_1", upper, "s3cr3t"); err != nil {
		t.Fatalf("uppercase hex rejected: %v", err)
	}
}
