package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/finsightlabs/finsight/app/models"
	"github.com/finsightlabs/finsight/app/repository"
)

// AdminReportController handles admin report-related HTTP requests using repository pattern
type AdminReportController struct {
	reportRepo repository.ReportRepository
}

// NewAdminReportController creates a new admin report controller with repository
func NewAdminReportController(reportRepo repository.ReportRepository) *AdminReportController {
	return &AdminReportController{
		reportRepo: reportRepo,
	}
}

// handleError is a helper method for consistent error handling
func (arc *AdminReportController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/reports")
}

// HandleAdminReports renders the report management page
func (arc *AdminReportController) HandleAdminReports(c *fiber.Ctx) error {
	reports, err := arc.reportRepo.GetAll(0, 200)
	if err != nil {
		return arc.handleError(c, "Failed to load reports", err)
	}

	return renderPage(c, "admin/reports", "Report Management", fiber.Map{
		"Reports": reports,
	})
}

// HandleAdminReportCreate renders the report creation page
func (arc *AdminReportController) HandleAdminReportCreate(c *fiber.Ctx) error {
	return renderPage(c, "admin/report_create", "Create Report", fiber.Map{})
}

// HandleAdminReportStore handles report creation
func (arc *AdminReportController) HandleAdminReportStore(c *fiber.Ctx) error {
	title := c.FormValue("title")
	reportSlug := c.FormValue("slug")
	symbol := strings.ToUpper(strings.TrimSpace(c.FormValue("symbol")))
	objectKey := c.FormValue("object_key")
	premium := c.FormValue("premium") != "0"
	published := c.FormValue("published") == "1"

	if title == "" || reportSlug == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title and slug are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/reports/create")
	}

	slugExists, err := arc.reportRepo.SlugExists(reportSlug)
	if err != nil {
		return arc.handleError(c, "Failed to check slug", err)
	}
	if slugExists {
		// Slug already exists, append timestamp
		reportSlug = fmt.Sprintf("%s-%d", reportSlug, time.Now().Unix())
	}

	report := &models.ResearchReport{
		Title:     title,
		Slug:      reportSlug,
		Symbol:    symbol,
		ObjectKey: objectKey,
		IsPremium: premium,
	}
	if published {
		now := time.Now()
		report.PublishedAt = &now
	}

	if err := arc.reportRepo.Create(report); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create report: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/reports/create")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Report created",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/reports")
}

// HandleAdminReportEdit renders the report edit page
func (arc *AdminReportController) HandleAdminReportEdit(c *fiber.Ctx) error {
	idParam := c.Params("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return c.Redirect("/admin/reports")
	}

	report, err := arc.reportRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Report not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/reports")
	}

	return renderPage(c, "admin/report_edit", "Edit Report", fiber.Map{
		"Report": report,
	})
}

// HandleAdminReportUpdate handles report update
func (arc *AdminReportController) HandleAdminReportUpdate(c *fiber.Ctx) error {
	idParam := c.Params("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return c.Redirect("/admin/reports")
	}

	report, err := arc.reportRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Report not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/reports")
	}

	title := c.FormValue("title")
	reportSlug := c.FormValue("slug")
	if title == "" || reportSlug == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title and slug are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/reports/edit/" + idParam)
	}

	if reportSlug != report.Slug {
		slugExists, err := arc.reportRepo.SlugExistsExceptID(reportSlug, uint(id))
		if err != nil {
			return arc.handleError(c, "Failed to check slug", err)
		}
		if slugExists {
			reportSlug = fmt.Sprintf("%s-%d", reportSlug, time.Now().Unix())
		}
	}

	report.Title = title
	report.Slug = reportSlug
	report.Symbol = strings.ToUpper(strings.TrimSpace(c.FormValue("symbol")))
	report.ObjectKey = c.FormValue("object_key")
	report.IsPremium = c.FormValue("premium") != "0"

	if c.FormValue("published") == "1" {
		if report.PublishedAt == nil {
			now := time.Now()
			report.PublishedAt = &now
		}
	} else {
		report.PublishedAt = nil
	}

	if err := arc.reportRepo.Update(report); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update report: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/reports/edit/" + idParam)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Report updated",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/reports")
}

// HandleAdminReportDelete handles report deletion
func (arc *AdminReportController) HandleAdminReportDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/reports")
	}

	if _, err := arc.reportRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Report not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/reports")
	}

	if err := arc.reportRepo.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete report: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/reports")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Report deleted",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/reports")
}

// Global admin report controller instance

var adminReportController *AdminReportController

// GetAdminReportController returns the global admin report controller instance
func GetAdminReportController() *AdminReportController {
	if adminReportController == nil {
		adminReportController = NewAdminReportController(repository.GetGlobalFactory().GetReportRepository())
	}
	return adminReportController
}
