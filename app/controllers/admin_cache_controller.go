package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/finsightlabs/finsight/app/repository"
)

// cacheKeyView is one row of the cache monitor table
type cacheKeyView struct {
	Key   string
	TTL   string
	Value string
}

// AdminCacheController exposes the Redis cache contents (billing projections,
// checkout reservations) for operational debugging.
type AdminCacheController struct {
	cacheRepo repository.CacheKeyRepository
}

// NewAdminCacheController creates a new admin cache controller with repository
func NewAdminCacheController(cacheRepo repository.CacheKeyRepository) *AdminCacheController {
	return &AdminCacheController{
		cacheRepo: cacheRepo,
	}
}

// HandleAdminCache renders the cache monitor, optionally filtered by pattern
func (acc *AdminCacheController) HandleAdminCache(c *fiber.Ctx) error {
	pattern := strings.TrimSpace(c.Query("pattern", "billing:*"))

	keys, err := acc.cacheRepo.FindKeysByPatterns([]string{pattern})
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to scan cache: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin")
	}

	views := make([]cacheKeyView, 0, len(keys))
	for _, key := range keys {
		view := cacheKeyView{Key: key}
		if ttl, err := acc.cacheRepo.GetTTL(key); err == nil {
			view.TTL = ttl.String()
		}
		if value, err := acc.cacheRepo.GetValue(key); err == nil {
			if len(value) > 200 {
				value = value[:200] + "…"
			}
			view.Value = value
		}
		views = append(views, view)
	}

	return renderPage(c, "admin/cache", "Cache Monitor", fiber.Map{
		"Pattern": pattern,
		"Keys":    views,
	})
}

// HandleAdminCacheDelete deletes all keys matching the submitted pattern
func (acc *AdminCacheController) HandleAdminCacheDelete(c *fiber.Ctx) error {
	pattern := strings.TrimSpace(c.FormValue("pattern"))
	if pattern == "" || pattern == "*" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Refusing to delete without a specific pattern",
		}
		return flash.WithError(c, fm).Redirect("/admin/cache")
	}

	keys, err := acc.cacheRepo.FindKeysByPatterns([]string{pattern})
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to scan cache: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/cache")
	}

	deleted, err := acc.cacheRepo.DeleteKeys(keys)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete keys: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/cache")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Deleted " + strconv.FormatInt(deleted, 10) + " keys",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/cache")
}

// Global admin cache controller instance

var adminCacheController *AdminCacheController

// GetAdminCacheController returns the global admin cache controller instance
func GetAdminCacheController() *AdminCacheController {
	if adminCacheController == nil {
		adminCacheController = NewAdminCacheController(repository.GetGlobalFactory().GetCacheKeyRepository())
	}
	return adminCacheController
}
