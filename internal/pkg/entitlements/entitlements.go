// Package entitlements decides whether a visitor may reach gated research
// content. The decision is pure and synchronous over already-resolved
// session state; it never calls the network.
package entitlements

// State classifies a resolved session for gating purposes.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoSubscription
	AuthenticatedSubscribed
	AdminBypass
)

// Decision is the gate's verdict for one navigation.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectSubscribe
)

// Session is the cached projection the gate evaluates. Resolved must be set
// by the session middleware before any decision is made; an unresolved
// session is treated as unauthenticated, never as allowed.
type Session struct {
	Resolved           bool
	Authenticated      bool
	IsAdmin            bool
	SubscriptionActive bool
}

// Classify maps a session projection onto a gate state.
func Classify(s Session) State {
	switch {
	case !s.Resolved || !s.Authenticated:
		return Unauthenticated
	case s.IsAdmin:
		return AdminBypass
	case s.SubscriptionActive:
		return AuthenticatedSubscribed
	default:
		return AuthenticatedNoSubscription
	}
}

// Decide evaluates the gate rules in order, first match wins:
// no session redirects to login, admins bypass every subscription check,
// non-subscribers are redirected only on routes that require a subscription,
// everything else is allowed.
func Decide(s Session, requiresSubscription bool) Decision {
	switch Classify(s) {
	case Unauthenticated:
		return RedirectLogin
	case AdminBypass:
		return Allow
	case AuthenticatedNoSubscription:
		if requiresSubscription {
			return RedirectSubscribe
		}
		return Allow
	default:
		return Allow
	}
}
