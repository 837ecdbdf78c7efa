package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/finsightlabs/finsight/internal/pkg/env"
	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

func isLoggedIn(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

// renderPage renders a view with the locals every layout needs: the resolved
// user context, flash messages and the dev flag.
func renderPage(c *fiber.Ctx, view, title string, data fiber.Map) error {
	userCtx := usercontext.GetUserContext(c)

	bind := fiber.Map{
		"Title":              title,
		"IsLoggedIn":         userCtx.IsLoggedIn,
		"IsAdmin":            userCtx.IsAdmin,
		"Username":           userCtx.Username,
		"SubscriptionActive": userCtx.SubscriptionActive,
		"Flash":              flash.Get(c),
		"IsDev":              env.IsDev(),
	}
	if token, ok := c.Locals("csrf").(string); ok {
		bind["csrf"] = token
	}
	for k, v := range data {
		bind[k] = v
	}

	return c.Render(view, bind)
}

// safeNext sanitizes a ?next= redirect target: relative paths only, no
// protocol-relative or absolute URLs.
func safeNext(raw, fallback string) string {
	next := strings.TrimSpace(raw)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}

// GetClientIP determines the actual client IP address considering proxies.
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	ip := c.IP()
	// ::ffff:192.168.1.1 style IPv4-mapped-IPv6 addresses
	if strings.HasPrefix(ip, "::ffff:") && strings.Contains(ip, ".") {
		return strings.TrimPrefix(ip, "::ffff:")
	}
	return ip
}
