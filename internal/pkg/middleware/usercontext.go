package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/finsightlabs/finsight/internal/pkg/billing"
	"github.com/finsightlabs/finsight/internal/pkg/database"
	"github.com/finsightlabs/finsight/internal/pkg/session"
	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a complete user context
// for every request. The entitlement gate only ever reads this resolved
// projection; until it is set, a request counts as unauthenticated.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth uses its own fiber session store on OAuth routes; skip ours there
	// to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		setAnonymous(c)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		setAnonymous(c)
		return c.Next()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	customerID := session.GetSessionValue(c, usercontext.KeyCustomerID)
	isAdmin := sess.Get(usercontext.KeyIsAdmin)

	// Session-first subscription flag; on a miss we poll the billing service
	// (cache, then gateway, then mirror) and store the result back. The
	// gateway never pushes entitlement updates to us.
	subscriptionActive := false
	switch session.GetSessionValue(c, usercontext.KeySubscriptionActive) {
	case "true":
		subscriptionActive = true
	case "false":
		subscriptionActive = false
	default:
		if db := database.GetDB(); db != nil && customerID != "" {
			svc := billing.NewServiceFromDB(db)
			subscriptionActive = svc.HasActiveSubscription(c.Context(), customerID)
		}
		flag := "false"
		if subscriptionActive {
			flag = "true"
		}
		_ = session.SetSessionValue(c, usercontext.KeySubscriptionActive, flag)
	}

	userCtx := usercontext.UserContext{
		UserID:             userID.(uint),
		Username:           username,
		CustomerID:         customerID,
		IsLoggedIn:         true,
		IsAdmin:            isAdmin != nil && isAdmin.(bool),
		SubscriptionActive: subscriptionActive,
	}
	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyUserID, userID.(uint))
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

	return c.Next()
}

func setAnonymous(c *fiber.Ctx) {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
}
