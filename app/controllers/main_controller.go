package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/finsightlabs/finsight/app/repository"
	"github.com/finsightlabs/finsight/internal/pkg/billing"
	"github.com/finsightlabs/finsight/internal/pkg/database"
	"github.com/finsightlabs/finsight/internal/pkg/sheets"
	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

// HandleStart renders the landing page with the latest published reports as
// teasers.
func HandleStart(c *fiber.Ctx) error {
	reports, err := repository.GetGlobalRepositories().Report.GetPublished(0, 6)
	if err != nil {
		reports = nil
	}

	return renderPage(c, "index", "", fiber.Map{
		"Reports": reports,
	})
}

// HandleDashboard renders the subscriber dashboard: current subscription
// state plus the most recent reports.
func HandleDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	data := fiber.Map{}

	svc := billing.NewServiceFromDB(database.GetDB())
	if sub, err := svc.ActiveSubscription(c.Context(), userCtx.CustomerID); err == nil {
		data["Subscription"] = sub
	}

	if reports, err := repository.GetGlobalRepositories().Report.GetPublished(0, 10); err == nil {
		data["Reports"] = reports
	}

	return renderPage(c, "dashboard", "Dashboard", data)
}

// HandlePage renders an editable marketing page (about, disclaimer, terms)
// by slug.
func HandlePage(c *fiber.Ctx) error {
	slug := c.Params("slug")

	page, err := repository.GetGlobalRepositories().Page.GetBySlug(slug)
	if err != nil || !page.IsActive {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Pages] lookup %s failed: %v", slug, err)
		}
		return c.Status(fiber.StatusNotFound).SendString("page not found")
	}

	return renderPage(c, "page", page.Title, fiber.Map{
		"Page": page,
	})
}

// HandleLogo serves the site logo from the spreadsheet backend with a static
// fallback, matching the legacy deployment where the logo lived in the sheet.
func HandleLogo(c *fiber.Ctx) error {
	image, err := sheets.NewClientFromEnv().GetLogoImage(c.Context())
	if err != nil || image == "" {
		return c.Redirect("/static/logo.svg", fiber.StatusTemporaryRedirect)
	}
	// The script returns a data URI; hand it to the client as-is.
	return c.SendString(image)
}
