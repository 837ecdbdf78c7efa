package router

import (
	"github.com/finsightlabs/finsight/app/controllers"
	"github.com/finsightlabs/finsight/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"service": "finsight",
			"docs":    "/docs/api/v1",
		})
	})

	subs := api.Group("/subscriptions")
	subs.Post("/", controllers.HandleAPISubscriptionCreate)
	subs.Post("/verify", controllers.HandleAPISubscriptionVerify)
	subs.Get("/active", middleware.RequireCustomerHeader, controllers.HandleAPISubscriptionActive)
	subs.Get("/payments", middleware.RequireCustomerHeader, controllers.HandleAPIPaymentHistory)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
