package router

import (
	"github.com/finsightlabs/finsight/app/controllers"
	"github.com/finsightlabs/finsight/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Public research listing; the download route is gated separately.
	app.Get("/reports", loggedInMiddleware, controllers.HandleReports)

	// Static pages by slug (about, disclaimer, terms)
	app.Get("/page/:slug", loggedInMiddleware, controllers.HandlePage)

	// Logo served from the spreadsheet backend with static fallback
	app.Get("/logo", controllers.HandleLogo)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}
