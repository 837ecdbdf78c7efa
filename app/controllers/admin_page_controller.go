package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/finsightlabs/finsight/app/models"
	"github.com/finsightlabs/finsight/app/repository"
)

// AdminPageController handles admin page-related HTTP requests using repository pattern
type AdminPageController struct {
	pageRepo repository.PageRepository
}

// NewAdminPageController creates a new admin page controller with repository
func NewAdminPageController(pageRepo repository.PageRepository) *AdminPageController {
	return &AdminPageController{
		pageRepo: pageRepo,
	}
}

func (apc *AdminPageController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/pages")
}

// HandleAdminPages renders the page management screen
func (apc *AdminPageController) HandleAdminPages(c *fiber.Ctx) error {
	pages, err := apc.pageRepo.GetAll()
	if err != nil {
		return apc.handleError(c, "Failed to load pages", err)
	}

	return renderPage(c, "admin/pages", "Page Management", fiber.Map{
		"Pages": pages,
	})
}

// HandleAdminPageCreate renders the page creation screen
func (apc *AdminPageController) HandleAdminPageCreate(c *fiber.Ctx) error {
	return renderPage(c, "admin/page_create", "Create Page", fiber.Map{})
}

// HandleAdminPageStore handles page creation
func (apc *AdminPageController) HandleAdminPageStore(c *fiber.Ctx) error {
	title := c.FormValue("title")
	content := c.FormValue("content")
	pageSlug := c.FormValue("slug")
	active := c.FormValue("active") != "0"

	if title == "" || content == "" || pageSlug == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title, slug and content are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/create")
	}

	slugExists, err := apc.pageRepo.SlugExists(pageSlug)
	if err != nil {
		return apc.handleError(c, "Failed to check slug", err)
	}
	if slugExists {
		pageSlug = fmt.Sprintf("%s-%d", pageSlug, time.Now().Unix())
	}

	page := &models.Page{
		Title:    title,
		Content:  content,
		Slug:     pageSlug,
		IsActive: active,
	}

	if err := apc.pageRepo.Create(page); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create page: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/create")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Page created",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/pages")
}

// HandleAdminPageEdit renders the page edit screen
func (apc *AdminPageController) HandleAdminPageEdit(c *fiber.Ctx) error {
	idParam := c.Params("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return c.Redirect("/admin/pages")
	}

	page, err := apc.pageRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Page not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	return renderPage(c, "admin/page_edit", "Edit Page", fiber.Map{
		"Page": page,
	})
}

// HandleAdminPageUpdate handles page update
func (apc *AdminPageController) HandleAdminPageUpdate(c *fiber.Ctx) error {
	idParam := c.Params("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return c.Redirect("/admin/pages")
	}

	page, err := apc.pageRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Page not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	title := c.FormValue("title")
	content := c.FormValue("content")
	pageSlug := c.FormValue("slug")

	if title == "" || content == "" || pageSlug == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title, slug and content are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/edit/" + idParam)
	}

	if pageSlug != page.Slug {
		slugExists, err := apc.pageRepo.SlugExistsExceptID(pageSlug, uint(id))
		if err != nil {
			return apc.handleError(c, "Failed to check slug", err)
		}
		if slugExists {
			pageSlug = fmt.Sprintf("%s-%d", pageSlug, time.Now().Unix())
		}
	}

	page.Title = title
	page.Content = content
	page.Slug = pageSlug
	page.IsActive = c.FormValue("active") != "0"

	if err := apc.pageRepo.Update(page); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update page: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/edit/" + idParam)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Page updated",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/pages")
}

// HandleAdminPageDelete handles page deletion
func (apc *AdminPageController) HandleAdminPageDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/pages")
	}

	if _, err := apc.pageRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Page not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	if err := apc.pageRepo.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete page: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Page deleted",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/pages")
}

// Global admin page controller instance

var adminPageController *AdminPageController

// GetAdminPageController returns the global admin page controller instance
func GetAdminPageController() *AdminPageController {
	if adminPageController == nil {
		adminPageController = NewAdminPageController(repository.GetGlobalFactory().GetPageRepository())
	}
	return adminPageController
}
