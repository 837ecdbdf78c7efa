package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/finsightlabs/finsight/app/models"
	"github.com/finsightlabs/finsight/internal/pkg/constants"
	"github.com/finsightlabs/finsight/internal/pkg/database"
)

// HandleOAuthCallback completes the provider flow and logs the user in
func HandleOAuthCallback(c *fiber.Ctx) error {
	// Complete OAuth with provider and obtain unified user
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("OAuth failed: %v", err))
	}

	db := database.GetDB()

	// Try to find existing provider account
	var pa models.ProviderAccount
	res := db.Where("provider = ? AND provider_user_id = ?", u.Provider, u.UserID).First(&pa)

	var appUser models.User
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		// Optional email match if provided
		if u.Email != "" {
			_ = db.Where("email = ?", u.Email).First(&appUser).Error
		}
		if appUser.ID == 0 {
			// New account via OAuth only; random placeholder password since
			// validation requires one, never usable for form login.
			placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
			hash, _ := models.HashPassword(placeholder)
			email := u.Email
			if email == "" {
				email = fmt.Sprintf("%s_%s@%s.oauth.local", u.Provider, u.UserID, u.Provider)
			}
			appUser = models.User{
				Name:       firstNonEmpty(u.Name, u.NickName, u.Email, "User"),
				Email:      email,
				Password:   hash,
				AvatarURL:  u.AvatarURL,
				Status:     models.STATUS_ACTIVE,
				Role:       models.ROLE_USER,
				CustomerID: uuid.NewString(),
			}
			if err := db.Create(&appUser).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("create user failed: %v", err))
			}
		}
		var exp *time.Time
		if !u.ExpiresAt.IsZero() {
			t := u.ExpiresAt
			exp = &t
		}
		pa = models.ProviderAccount{
			UserID:         appUser.ID,
			Provider:       u.Provider,
			ProviderUserID: u.UserID,
			AccessToken:    u.AccessToken,
			RefreshToken:   u.RefreshToken,
			ExpiresAt:      exp,
		}
		if err := db.Create(&pa).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("link provider failed: %v", err))
		}
	} else if res.Error == nil {
		// Update tokens
		pa.AccessToken = u.AccessToken
		pa.RefreshToken = u.RefreshToken
		if !u.ExpiresAt.IsZero() {
			t := u.ExpiresAt
			pa.ExpiresAt = &t
		} else {
			pa.ExpiresAt = nil
		}
		if err := db.Save(&pa).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("update tokens failed: %v", err))
		}
		// Load related user
		if err := db.First(&appUser, pa.UserID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("linked user not found")
		}
	} else {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("db error: %v", res.Error))
	}

	if err := establishSession(c, &appUser); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	// Update last login timestamp
	_ = db.Model(&appUser).UpdateColumn("last_login_at", time.Now()).Error

	return c.Redirect(constants.DashboardRoute, fiber.StatusSeeOther)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
