package router

import (
	"strings"
	"time"

	"github.com/finsightlabs/finsight/app/controllers"
	"github.com/finsightlabs/finsight/internal/pkg/env"
	"github.com/finsightlabs/finsight/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			// API callers authenticate differently; the gateway's browser
			// return also posts without our CSRF token.
			return strings.HasPrefix(c.Path(), "/api/") || c.Path() == "/checkout/return"
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)

	// Checkout flow
	group.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)
	group.Post("/checkout", middleware.RequireAuth, controllers.HandleCheckout)
	group.Post("/checkout/return", loggedInMiddleware, controllers.HandlePaymentReturn)

	// Subscriber area
	group.Get("/dashboard", middleware.RequireAuth, controllers.HandleDashboard)
	group.Get("/account/billing", middleware.RequireAuth, controllers.HandleBillingOverview)

	// Premium downloads sit behind the entitlement gate.
	group.Get("/reports/:slug/download", middleware.RequireSubscription, controllers.HandleReportDownload)
}
