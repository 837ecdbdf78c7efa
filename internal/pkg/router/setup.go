package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router is one installable route group.
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	// The HTTP router goes first: it initializes the session store, the
	// oauth providers and the user-context middleware the API routes rely on.
	setup(app, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
