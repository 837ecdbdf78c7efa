package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/finsightlabs/finsight/internal/pkg/constants"
	"github.com/finsightlabs/finsight/internal/pkg/entitlements"
	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to /login if
// missing, preserving the originally requested location.
func RequireAuth(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect(withNext(constants.LoginRoute, c.OriginalURL()), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAdmin ensures a logged-in admin; redirects otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect(withNext(constants.LoginRoute, c.OriginalURL()), fiber.StatusSeeOther)
	}
	if !userCtx.IsAdmin {
		return c.Redirect(constants.PublicRoute, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireSubscription is the entitlement gate for premium research routes.
// Admins bypass the subscription check unconditionally; everyone else needs
// an active subscription on the cached session projection.
func RequireSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	decision := entitlements.Decide(entitlements.Session{
		Resolved:           true,
		Authenticated:      userCtx.IsLoggedIn,
		IsAdmin:            userCtx.IsAdmin,
		SubscriptionActive: userCtx.SubscriptionActive,
	}, true)

	switch decision {
	case entitlements.RedirectLogin:
		return c.Redirect(withNext(constants.LoginRoute, c.OriginalURL()), fiber.StatusSeeOther)
	case entitlements.RedirectSubscribe:
		return c.Redirect(withNext(constants.PricingRoute, c.OriginalURL()), fiber.StatusSeeOther)
	default:
		return c.Next()
	}
}

// RequireAPISessionAuth ensures a logged-in session for API routes and
// returns JSON 401 instead of a redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireCustomerHeader authenticates thin API reads that identify the
// caller only by the x-customer-id header.
func RequireCustomerHeader(c *fiber.Ctx) error {
	customerID := strings.TrimSpace(c.Get("x-customer-id"))
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing x-customer-id header",
		})
	}
	c.Locals(usercontext.KeyCustomerID, customerID)
	return c.Next()
}

// withNext preserves the originally requested location for post-login (or
// post-subscribe) return.
func withNext(route, original string) string {
	if original == "" || original == route {
		return route
	}
	return route + "?next=" + url.QueryEscape(original)
}
