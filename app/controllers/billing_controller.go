package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/finsightlabs/finsight/internal/pkg/billing"
	"github.com/finsightlabs/finsight/internal/pkg/constants"
	"github.com/finsightlabs/finsight/internal/pkg/database"
	"github.com/finsightlabs/finsight/internal/pkg/env"
	"github.com/finsightlabs/finsight/internal/pkg/session"
	"github.com/finsightlabs/finsight/internal/pkg/sheets"
	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

// planView is the pricing page projection of a catalog entry.
type planView struct {
	PlanID       string
	Interval     string
	Amount       string
	CurrencyCode string
	Cycles       int
}

// HandlePricing renders the plan catalog. Prices come from the catalog only,
// never from anything the client sent.
func HandlePricing(c *fiber.Ctx) error {
	entries := billing.Plans()
	plans := make([]planView, 0, len(entries))
	for _, entry := range entries {
		plans = append(plans, planView{
			PlanID:       entry.PlanID,
			Interval:     entry.Interval,
			Amount:       fmt.Sprintf("%d.%02d", entry.AmountMinorUnits/100, entry.AmountMinorUnits%100),
			CurrencyCode: entry.CurrencyCode,
			Cycles:       entry.BillingCycles(),
		})
	}

	return renderPage(c, "billing/pricing", "Pricing", fiber.Map{
		"Plans": plans,
		"Next":  safeNext(c.Query("next"), ""),
	})
}

// HandleCheckout creates the gateway subscription for the submitted plan and
// sends the user to the hosted payment page.
//
// POST /checkout
func HandleCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	req := billing.SubscriptionRequest{
		PlanID:     c.FormValue("plan_id"),
		Interval:   c.FormValue("interval"),
		CustomerID: userCtx.CustomerID,
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	sub, err := svc.CreateSubscription(c.Context(), req)
	if err != nil {
		fm := fiber.Map{"type": "error"}
		if errors.Is(err, billing.ErrInvalidPlan) {
			fm["message"] = "Invalid plan or interval"
		} else {
			fm["message"] = "Failed to create subscription. Please try again."
		}
		return flash.WithError(c, fm).Redirect(constants.PricingRoute)
	}

	if sub.ShortURL != "" {
		return c.Redirect(sub.ShortURL, fiber.StatusSeeOther)
	}

	// No hosted page URL: render the embedded checkout with the public key id.
	return renderPage(c, "billing/checkout", "Checkout", fiber.Map{
		"SubscriptionID": sub.ID,
		"GatewayKeyID":   env.GetEnv("RAZORPAY_KEY_ID", ""),
	})
}

// HandlePaymentReturn is the browser return path after the hosted payment
// page. The gateway appends the payment id, subscription id and signature as
// form fields; verification reuses the same path as the API callback.
//
// POST /checkout/return
func HandlePaymentReturn(c *fiber.Ctx) error {
	cb := billing.PaymentCallback{
		PaymentID:      c.FormValue("razorpay_payment_id"),
		SubscriptionID: c.FormValue("razorpay_subscription_id"),
		Signature:      c.FormValue("razorpay_signature"),
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	if err := svc.VerifyCallback(c.Context(), cb); err != nil {
		log.Warnf("[Billing] payment return rejected: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "We could not verify this payment. If you were charged, contact support.",
		}
		return flash.WithError(c, fm).Redirect(constants.PricingRoute)
	}

	// Entitlements re-resolve on the next request.
	_ = flushSubscriptionFlag(c)

	fm := fiber.Map{
		"type":    "success",
		"message": "Payment verified, your subscription is active!",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.DashboardRoute)
}

// HandleBillingOverview renders the account billing page with the current
// subscription and payment history.
func HandleBillingOverview(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	svc := billing.NewServiceFromDB(database.GetDB())

	data := fiber.Map{}
	if sub, err := svc.ActiveSubscription(c.Context(), userCtx.CustomerID); err == nil {
		data["Subscription"] = sub
	}

	history, err := sheets.NewClientFromEnv().GetPaymentHistory(c.Context(), userCtx.CustomerID)
	if err != nil {
		// Read-path fallback: an unreachable script backend degrades to the
		// locally recorded payment events.
		log.Warnf("[Billing] sheets history unavailable for %s: %v", userCtx.CustomerID, err)
		events, repoErr := billing.NewRepository(database.GetDB()).ListPaymentEventsByCustomer(userCtx.CustomerID)
		if repoErr == nil {
			for _, ev := range events {
				status := "verified"
				if !ev.SignatureValid {
					status = "rejected"
				}
				history = append(history, sheets.PaymentRecord{
					PaymentID:      ev.ProviderPaymentID,
					SubscriptionID: ev.ProviderSubscriptionID,
					Status:         status,
					PaidAt:         ev.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
		}
	}
	data["Payments"] = history

	return renderPage(c, "billing/overview", "Billing", data)
}

// flushSubscriptionFlag drops the cached session entitlement flag so the
// next request re-resolves it.
func flushSubscriptionFlag(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Delete(usercontext.KeySubscriptionActive)
	return sess.Save()
}
