package router

import (
	"github.com/finsightlabs/finsight/internal/pkg/middleware"
	"github.com/finsightlabs/finsight/internal/pkg/oauth"
	"github.com/finsightlabs/finsight/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; this middleware
	// just passes through so the route table reads uniformly.
	return c.Next()
}
