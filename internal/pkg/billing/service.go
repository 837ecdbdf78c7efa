package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finsightlabs/finsight/app/models"
	"github.com/finsightlabs/finsight/internal/pkg/cache"
	"github.com/finsightlabs/finsight/internal/pkg/env"
	"github.com/finsightlabs/finsight/internal/pkg/razorpay"
)

const (
	// createReservationTTL absorbs double form submits. The gateway call is
	// not idempotent upstream, so the reservation is our only dedupe.
	createReservationTTL = 30 * time.Second

	// activeProjectionTTL bounds staleness of the cached active-subscription
	// projection. Invalidation on verified payment is explicit; the gateway
	// never pushes updates, poll-on-read is the only guaranteed channel.
	activeProjectionTTL = 60 * time.Second
)

// Service implements the subscription-payment flow: plan resolution, gateway
// creation, callback verification and the entitlement projection.
type Service struct {
	repo          Repository
	gateway       Gateway
	webhookSecret string
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, gateway Gateway, webhookSecret string) *Service {
	return &Service{repo: repo, gateway: gateway, webhookSecret: webhookSecret}
}

// NewServiceFromDB wires the production gateway client and secret from env.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		NewRepository(db),
		razorpay.NewClientFromEnv(),
		env.GetEnv("RAZORPAY_KEY_SECRET", ""),
	)
}

// CreateSubscription resolves the plan locally and asks the gateway to
// create a subscription with notification enabled. The gateway handle is
// returned unchanged. Failures are never retried here; re-submitting the
// form is the only retry channel.
func (s *Service) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*razorpay.Subscription, error) {
	entry, err := LookupPlan(req.PlanID, req.Interval)
	if err != nil {
		return nil, err
	}

	customerID := strings.TrimSpace(req.CustomerID)
	idempotencyKey := uuid.NewString()

	// Short-lived local reservation; the cache being down must not block
	// checkout, it only loses dedupe.
	reservation := fmt.Sprintf("billing:create:%s:%s:%s", customerID, entry.PlanID, entry.Interval)
	if customerID != "" {
		if ok, err := cache.SetNX(reservation, idempotencyKey, createReservationTTL); err == nil && !ok {
			return nil, fmt.Errorf("duplicate submit for %s: %w", entry.PlanID, ErrSubscriptionCreation)
		}
	}

	sub, err := s.gateway.CreateSubscription(ctx, razorpay.CreateSubscriptionRequest{
		PlanID:         entry.GatewayPlanRef,
		TotalCount:     entry.BillingCycles(),
		CustomerNotify: 1,
		Notes: map[string]string{
			"customer_id":     customerID,
			"plan_id":         entry.PlanID,
			"interval":        entry.Interval,
			"idempotency_key": idempotencyKey,
		},
	})
	if err != nil {
		if customerID != "" {
			_ = cache.Delete(reservation)
		}
		log.Errorf("[Billing] gateway subscription create failed for plan %s/%s: %v", entry.PlanID, entry.Interval, err)
		return nil, fmt.Errorf("gateway create: %w", ErrSubscriptionCreation)
	}

	s.mirrorFromGateway(customerID, entry, sub)

	return sub, nil
}

// VerifyCallback authenticates a payment callback, records it idempotently
// and, on success, marks the mirrored subscription active and invalidates
// the cached projection. Verification always completes before any
// entitlement state changes.
func (s *Service) VerifyCallback(ctx context.Context, cb PaymentCallback) error {
	if strings.TrimSpace(cb.PaymentID) == "" ||
		strings.TrimSpace(cb.SubscriptionID) == "" ||
		strings.TrimSpace(cb.Signature) == "" {
		return ErrMalformedCallback
	}

	sigErr := VerifyPaymentSignature(cb.PaymentID, cb.SubscriptionID, cb.Signature, s.webhookSecret)

	payload, _ := json.Marshal(cb)
	created, stored, err := s.repo.CreatePaymentEventIfNotExists(&models.PaymentEvent{
		ProviderPaymentID:      strings.TrimSpace(cb.PaymentID),
		ProviderSubscriptionID: strings.TrimSpace(cb.SubscriptionID),
		SignatureValid:         sigErr == nil,
		PayloadJSON:            string(payload),
	})
	if err != nil {
		return err
	}

	if sigErr != nil {
		_ = s.repo.MarkPaymentEventProcessed(stored.ID, sigErr.Error())
		return sigErr
	}
	if !created {
		if stored.SignatureValid {
			// Redelivered callback for an already-verified payment.
			return nil
		}
		// The payment id was first seen with a bad signature. The genuine
		// callback still has to activate; upgrade the stored event so the
		// next redelivery short-circuits.
		_ = s.repo.MarkPaymentEventVerified(stored.ID)
	}

	customerID := s.activateMirror(ctx, strings.TrimSpace(cb.SubscriptionID))
	if customerID != "" {
		_ = cache.Delete(activeProjectionKey(customerID))
	}
	_ = s.repo.MarkPaymentEventProcessed(stored.ID, "")
	return nil
}

// ActiveSubscription resolves the current entitling subscription for a
// customer: cached projection first, then gateway poll, then the local
// mirror when the gateway is unreachable.
func (s *Service) ActiveSubscription(ctx context.Context, customerID string) (*razorpay.Subscription, error) {
	id := strings.TrimSpace(customerID)
	if id == "" {
		return nil, ErrNoActiveSubscription
	}

	if raw, err := cache.Get(activeProjectionKey(id)); err == nil && raw != "" {
		var sub razorpay.Subscription
		if json.Unmarshal([]byte(raw), &sub) == nil && sub.ID != "" {
			return &sub, nil
		}
	}

	subs, err := s.gateway.ListSubscriptions(ctx, 100)
	if err != nil {
		log.Errorf("[Billing] gateway subscription list failed for customer %s: %v", id, err)
		return s.activeFromMirror(id)
	}

	for i := range subs {
		sub := subs[i]
		if sub.Notes["customer_id"] != id || !isEntitlingStatus(sub.Status) {
			continue
		}
		if raw, err := json.Marshal(sub); err == nil {
			_ = cache.Set(activeProjectionKey(id), string(raw), activeProjectionTTL)
		}
		s.syncMirror(id, &sub)
		return &sub, nil
	}

	return nil, ErrNoActiveSubscription
}

// HasActiveSubscription is the boolean projection used by the entitlement
// gate on page navigation.
func (s *Service) HasActiveSubscription(ctx context.Context, customerID string) bool {
	_, err := s.ActiveSubscription(ctx, customerID)
	return err == nil
}

// activateMirror marks the mirrored subscription active after a verified
// payment, refreshing period bounds from the gateway when reachable. It
// returns the mirrored customer id for cache invalidation.
func (s *Service) activateMirror(ctx context.Context, subscriptionID string) string {
	mirror, err := s.repo.GetMirrorByProviderSubscriptionID(subscriptionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		mirror = &models.SubscriptionMirror{ProviderSubscriptionID: subscriptionID}
	} else if err != nil {
		log.Errorf("[Billing] mirror lookup failed for %s: %v", subscriptionID, err)
		return ""
	}

	mirror.Status = models.SubscriptionStatusActive
	if sub, err := s.gateway.FetchSubscription(ctx, subscriptionID); err == nil {
		applyGatewayState(mirror, sub)
		if cid := strings.TrimSpace(sub.Notes["customer_id"]); cid != "" {
			mirror.CustomerID = cid
		}
		// A verified payment is authoritative even when the gateway has not
		// flipped its own status yet.
		if !isEntitlingStatus(mirror.Status) {
			mirror.Status = models.SubscriptionStatusActive
		}
	}

	if err := s.repo.UpsertSubscriptionMirror(mirror); err != nil {
		log.Errorf("[Billing] mirror activate failed for %s: %v", subscriptionID, err)
		return ""
	}
	return mirror.CustomerID
}

func (s *Service) activeFromMirror(customerID string) (*razorpay.Subscription, error) {
	mirror, err := s.repo.GetActiveMirrorByCustomer(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return &razorpay.Subscription{
		ID:     mirror.ProviderSubscriptionID,
		PlanID: mirror.PlanID,
		Status: mirror.Status,
		Notes:  map[string]string{"customer_id": mirror.CustomerID},
	}, nil
}

func (s *Service) mirrorFromGateway(customerID string, entry PlanEntry, sub *razorpay.Subscription) {
	mirror := &models.SubscriptionMirror{
		CustomerID:             customerID,
		ProviderSubscriptionID: sub.ID,
		PlanID:                 entry.PlanID,
		BillingInterval:        entry.Interval,
	}
	applyGatewayState(mirror, sub)
	if err := s.repo.UpsertSubscriptionMirror(mirror); err != nil {
		log.Errorf("[Billing] mirror upsert failed for %s: %v", sub.ID, err)
	}
}

func (s *Service) syncMirror(customerID string, sub *razorpay.Subscription) {
	mirror, err := s.repo.GetMirrorByProviderSubscriptionID(sub.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		mirror = &models.SubscriptionMirror{
			CustomerID:             customerID,
			ProviderSubscriptionID: sub.ID,
			PlanID:                 sub.Notes["plan_id"],
			BillingInterval:        sub.Notes["interval"],
		}
	} else if err != nil {
		return
	}
	applyGatewayState(mirror, sub)
	if err := s.repo.UpsertSubscriptionMirror(mirror); err != nil {
		log.Errorf("[Billing] mirror sync failed for %s: %v", sub.ID, err)
	}
}

func applyGatewayState(mirror *models.SubscriptionMirror, sub *razorpay.Subscription) {
	if sub.Status != "" {
		mirror.Status = sub.Status
	}
	mirror.AttemptCount = sub.AuthAttempts
	if sub.CurrentStart > 0 {
		t := time.Unix(sub.CurrentStart, 0)
		mirror.CurrentPeriodStart = &t
	}
	if sub.CurrentEnd > 0 {
		t := time.Unix(sub.CurrentEnd, 0)
		mirror.CurrentPeriodEnd = &t
	}
	if raw, err := json.Marshal(sub); err == nil {
		mirror.RawPayloadJSON = string(raw)
	}
}

func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.SubscriptionStatusActive, models.SubscriptionStatusAuthenticated:
		return true
	default:
		return false
	}
}

func activeProjectionKey(customerID string) string {
	return "billing:active:" + customerID
}
