package entitlements

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session Session
		want    State
	}{
		{"unresolved session", Session{Resolved: false, Authenticated: true, SubscriptionActive: true}, Unauthenticated},
		{"anonymous visitor", Session{Resolved: true}, Unauthenticated},
		{"admin", Session{Resolved: true, Authenticated: true, IsAdmin: true}, AdminBypass},
		{"admin without subscription", Session{Resolved: true, Authenticated: true, IsAdmin: true, SubscriptionActive: false}, AdminBypass},
		{"subscriber", Session{Resolved: true, Authenticated: true, SubscriptionActive: true}, AuthenticatedSubscribed},
		{"member without subscription", Session{Resolved: true, Authenticated: true}, AuthenticatedNoSubscription},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.session); got != tc.want {
				t.Fatalf("Classify(%+v) = %d, want %d", tc.session, got, tc.want)
			}
		})
	}
}

func TestDecideOrdering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		session  Session
		requires bool
		want     Decision
	}{
		// Login check runs first, regardless of what the route requires.
		{"anonymous on open route", Session{Resolved: true}, false, RedirectLogin},
		{"anonymous on gated route", Session{Resolved: true}, true, RedirectLogin},
		{"unresolved on gated route", Session{Authenticated: true, SubscriptionActive: true}, true, RedirectLogin},

		// Admins bypass the subscription requirement entirely.
		{"admin on gated route", Session{Resolved: true, Authenticated: true, IsAdmin: true}, true, Allow},
		{"admin on open route", Session{Resolved: true, Authenticated: true, IsAdmin: true}, false, Allow},

		// Non-subscribers are redirected only where a subscription is required.
		{"member on gated route", Session{Resolved: true, Authenticated: true}, true, RedirectSubscribe},
		{"member on open route", Session{Resolved: true, Authenticated: true}, false, Allow},

		{"subscriber on gated route", Session{Resolved: true, Authenticated: true, SubscriptionActive: true}, true, Allow},
		{"subscriber on open route", Session{Resolved: true, Authenticated: true, SubscriptionActive: true}, false, Allow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.session, tc.requires); got != tc.want {
				t.Fatalf("Decide(%+v, %v) = %d, want %d", tc.session, tc.requires, got, tc.want)
			}
		})
	}
}
