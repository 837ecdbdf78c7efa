package models

import "testing"

func TestSubscriptionMirrorIsActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status string
		want   bool
	}{
		{SubscriptionStatusCreated, false},
		{SubscriptionStatusAuthenticated, true},
		{SubscriptionStatusActive, true},
		{SubscriptionStatusHalted, false},
		{SubscriptionStatusCancelled, false},
		{SubscriptionStatusCompleted, false},
		{SubscriptionStatusExpired, false},
		{"", false},
	}

	for _, tc := range tests {
		mirror := &SubscriptionMirror{Status: tc.status}
		if got := mirror.IsActive(); got != tc.want {
			t.Fatalf("IsActive() with status %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}
