package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/finsightlabs/finsight/app/repository"
	"github.com/finsightlabs/finsight/internal/pkg/constants"
	"github.com/finsightlabs/finsight/internal/pkg/reportvault"
	"github.com/finsightlabs/finsight/internal/pkg/sheets"
)

// HandleReports lists published research reports. Listing is public; the
// download itself is behind the entitlement gate.
func HandleReports(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Report

	reports, err := repo.GetPublished(0, 50)
	if err != nil {
		log.Errorf("[Reports] listing failed: %v", err)
		reports = nil
	}

	if symbol := c.Query("symbol"); symbol != "" {
		if filtered, err := repo.GetBySymbol(symbol); err == nil {
			reports = filtered
		}
	}

	return renderPage(c, "reports/index", "Research Reports", fiber.Map{
		"Reports": reports,
	})
}

// HandleReportDownload serves a premium report document. The route is behind
// RequireSubscription; this handler only resolves where the bytes live: the
// S3 vault when configured, the spreadsheet backend otherwise.
func HandleReportDownload(c *fiber.Ctx) error {
	slug := c.Params("slug")

	report, err := repository.GetGlobalRepositories().Report.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("report not found")
		}
		log.Errorf("[Reports] lookup %s failed: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).SendString("report lookup failed")
	}
	if report.PublishedAt == nil {
		return c.Status(fiber.StatusNotFound).SendString("report not found")
	}

	// Vault first: a presigned URL keeps the document bytes off this server.
	if report.ObjectKey != "" {
		if vaultCfg, err := reportvault.LoadConfig(); err == nil && vaultCfg.IsEnabled() {
			vault, err := reportvault.NewClient(vaultCfg)
			if err == nil {
				url, err := vault.PresignDownload(c.Context(), report.ObjectKey)
				if err == nil {
					return c.Redirect(url, fiber.StatusSeeOther)
				}
				log.Errorf("[Reports] presign %s failed: %v", report.ObjectKey, err)
			} else {
				log.Errorf("[Reports] vault client init failed: %v", err)
			}
		}
	}

	// Fallback: the spreadsheet backend streams the document as base64.
	payload, err := sheets.NewClientFromEnv().DownloadReport(c.Context(), report.Slug)
	if err != nil {
		log.Errorf("[Reports] sheets download %s failed: %v", report.Slug, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The report is temporarily unavailable. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(constants.ReportsRoute)
	}

	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		log.Errorf("[Reports] sheets download %s returned invalid base64: %v", report.Slug, err)
		return c.Status(fiber.StatusInternalServerError).SendString("report decode failed")
	}

	fileName := payload.FileName
	if fileName == "" {
		fileName = report.Slug + ".pdf"
	}
	mimeType := payload.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	c.Set(fiber.HeaderContentType, mimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(data)
}
