package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/finsightlabs/finsight/app/models"
	"github.com/finsightlabs/finsight/app/repository"
	"github.com/finsightlabs/finsight/internal/pkg/billing"
	"github.com/finsightlabs/finsight/internal/pkg/database"
)

// AdminController handles the admin dashboard and user management
type AdminController struct {
	userRepo repository.UserRepository
}

// NewAdminController creates a new admin controller with repository
func NewAdminController(userRepo repository.UserRepository) *AdminController {
	return &AdminController{
		userRepo: userRepo,
	}
}

// HandleAdminDashboard renders the admin dashboard with headline counts
func (ac *AdminController) HandleAdminDashboard(c *fiber.Ctx) error {
	userCount, _ := ac.userRepo.Count()
	reportCount, _ := repository.GetGlobalRepositories().Report.Count()

	var activeSubs int64
	database.GetDB().Model(&models.SubscriptionMirror{}).
		Where("status IN ?", []string{models.SubscriptionStatusActive, models.SubscriptionStatusAuthenticated}).
		Count(&activeSubs)

	var paymentCount int64
	database.GetDB().Model(&models.PaymentEvent{}).
		Where("signature_valid = ?", true).
		Count(&paymentCount)

	return renderPage(c, "admin/dashboard", "Admin", fiber.Map{
		"UserCount":     userCount,
		"ReportCount":   reportCount,
		"ActiveSubs":    activeSubs,
		"PaymentCount":  paymentCount,
		"PlanCount":     len(billing.Plans()),
	})
}

// HandleAdminUsers renders the user management page with billing snapshots
func (ac *AdminController) HandleAdminUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	const perPage = 25

	var users []repository.UserWithBilling
	var err error
	if query := c.Query("q"); query != "" {
		found, searchErr := ac.userRepo.Search(query)
		err = searchErr
		for _, u := range found {
			users = append(users, repository.UserWithBilling{User: u})
		}
	} else {
		users, err = ac.userRepo.GetWithBilling((page-1)*perPage, perPage)
	}
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to load users: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin")
	}

	total, _ := ac.userRepo.Count()

	return renderPage(c, "admin/users", "User Management", fiber.Map{
		"Users": users,
		"Page":  page,
		"Pages": (total + perPage - 1) / perPage,
		"Query": c.Query("q"),
	})
}

// HandleAdminUserDisable flips a user's status between active and disabled
func (ac *AdminController) HandleAdminUserDisable(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.userRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "User not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	if user.Status == models.STATUS_DISABLED {
		user.Status = models.STATUS_ACTIVE
	} else {
		user.Status = models.STATUS_DISABLED
	}

	if err := ac.userRepo.Update(user); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update user: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "User status updated",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// Global admin controller instance

var adminController *AdminController

// GetAdminController returns the global admin controller instance
func GetAdminController() *AdminController {
	if adminController == nil {
		adminController = NewAdminController(repository.GetGlobalFactory().GetUserRepository())
	}
	return adminController
}
