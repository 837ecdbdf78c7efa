package router

import (
	"github.com/finsightlabs/finsight/app/controllers"
	"github.com/finsightlabs/finsight/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.GetAdminController().HandleAdminDashboard)
	adminGroup.Get("/users", controllers.GetAdminController().HandleAdminUsers)
	adminGroup.Post("/users/disable/:id", controllers.GetAdminController().HandleAdminUserDisable)

	// Report management
	adminGroup.Get("/reports", controllers.GetAdminReportController().HandleAdminReports)
	adminGroup.Get("/reports/create", controllers.GetAdminReportController().HandleAdminReportCreate)
	adminGroup.Post("/reports/store", controllers.GetAdminReportController().HandleAdminReportStore)
	adminGroup.Get("/reports/edit/:id", controllers.GetAdminReportController().HandleAdminReportEdit)
	adminGroup.Post("/reports/update/:id", controllers.GetAdminReportController().HandleAdminReportUpdate)
	adminGroup.Post("/reports/delete/:id", controllers.GetAdminReportController().HandleAdminReportDelete)

	// Page management
	adminGroup.Get("/pages", controllers.GetAdminPageController().HandleAdminPages)
	adminGroup.Get("/pages/create", controllers.GetAdminPageController().HandleAdminPageCreate)
	adminGroup.Post("/pages/store", controllers.GetAdminPageController().HandleAdminPageStore)
	adminGroup.Get("/pages/edit/:id", controllers.GetAdminPageController().HandleAdminPageEdit)
	adminGroup.Post("/pages/update/:id", controllers.GetAdminPageController().HandleAdminPageUpdate)
	adminGroup.Post("/pages/delete/:id", controllers.GetAdminPageController().HandleAdminPageDelete)

	// Cache monitor (billing projections, checkout reservations)
	adminGroup.Get("/cache", controllers.GetAdminCacheController().HandleAdminCache)
	adminGroup.Post("/cache/delete", controllers.GetAdminCacheController().HandleAdminCacheDelete)
}
