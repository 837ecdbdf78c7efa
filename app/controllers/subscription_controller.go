package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/finsightlabs/finsight/internal/pkg/billing"
	"github.com/finsightlabs/finsight/internal/pkg/database"
	"github.com/finsightlabs/finsight/internal/pkg/sheets"
	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

// HandleAPISubscriptionCreate creates a gateway subscription for a catalog
// plan. Invalid plan/interval combinations are rejected before any gateway
// call is made.
//
// POST /api/subscriptions
func HandleAPISubscriptionCreate(c *fiber.Ctx) error {
	var req billing.SubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan or interval",
		})
	}
	if err := validator.New().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan or interval",
		})
	}

	// A logged-in session is authoritative over the request body.
	if cid := usercontext.GetCustomerID(c); cid != "" {
		req.CustomerID = cid
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	sub, err := svc.CreateSubscription(c.Context(), req)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid plan or interval",
			})
		}
		log.Errorf("[API] subscription create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create subscription",
		})
	}

	return c.JSON(sub)
}

// HandleAPISubscriptionVerify authenticates a payment callback. The response
// never distinguishes which part of the signature check failed.
//
// POST /api/subscriptions/verify
func HandleAPISubscriptionVerify(c *fiber.Ctx) error {
	var cb billing.PaymentCallback
	if err := c.BodyParser(&cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid signature",
		})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	if err := svc.VerifyCallback(c.Context(), cb); err != nil {
		if errors.Is(err, billing.ErrMalformedCallback) || errors.Is(err, billing.ErrSignatureMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}
		log.Errorf("[API] payment verification failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Verification failed",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// HandleAPISubscriptionActive returns the caller's active subscription. The
// caller is identified by the x-customer-id header, enforced by middleware.
//
// GET /api/subscriptions/active
func HandleAPISubscriptionActive(c *fiber.Ctx) error {
	customerID, _ := c.Locals(usercontext.KeyCustomerID).(string)

	svc := billing.NewServiceFromDB(database.GetDB())
	sub, err := svc.ActiveSubscription(c.Context(), customerID)
	if err != nil {
		if errors.Is(err, billing.ErrNoActiveSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}
		log.Errorf("[API] active subscription lookup failed for %s: %v", customerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Subscription lookup failed",
		})
	}

	return c.JSON(sub)
}

// HandleAPIPaymentHistory lists the caller's payment history: spreadsheet
// backend first, local payment events when the script is unreachable.
//
// GET /api/subscriptions/payments
func HandleAPIPaymentHistory(c *fiber.Ctx) error {
	customerID, _ := c.Locals(usercontext.KeyCustomerID).(string)

	records, err := sheets.NewClientFromEnv().GetPaymentHistory(c.Context(), customerID)
	if err == nil {
		return c.JSON(fiber.Map{"payments": records})
	}
	log.Warnf("[API] sheets payment history unavailable for %s: %v", customerID, err)

	events, err := billing.NewRepository(database.GetDB()).ListPaymentEventsByCustomer(customerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Payment history unavailable",
		})
	}

	payments := make([]sheets.PaymentRecord, 0, len(events))
	for _, ev := range events {
		status := "verified"
		if !ev.SignatureValid {
			status = "rejected"
		}
		payments = append(payments, sheets.PaymentRecord{
			PaymentID:      ev.ProviderPaymentID,
			SubscriptionID: ev.ProviderSubscriptionID,
			Status:         status,
			PaidAt:         ev.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(fiber.Map{"payments": payments})
}
