package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/finsightlabs/finsight/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.razorpay.com/v1"

// gatewayTimeout bounds every gateway call. The gateway itself retries
// nothing on our behalf; an expired call surfaces as a creation failure.
const gatewayTimeout = 8 * time.Second

// Client is a thin REST client for the Razorpay subscriptions API. The key
// pair is used only server-side and never reaches a browser.
type Client struct {
	KeyID      string
	KeySecret  string
	APIBaseURL string

	HTTPClient *http.Client
}

// Subscription is the gateway's subscription handle, returned to callers
// unchanged on creation.
type Subscription struct {
	ID             string            `json:"id"`
	Entity         string            `json:"entity"`
	PlanID         string            `json:"plan_id"`
	CustomerID     string            `json:"customer_id,omitempty"`
	Status         string            `json:"status"`
	CurrentStart   int64             `json:"current_start,omitempty"`
	CurrentEnd     int64             `json:"current_end,omitempty"`
	ChargeAt       int64             `json:"charge_at,omitempty"`
	TotalCount     int               `json:"total_count"`
	PaidCount      int               `json:"paid_count"`
	RemainingCount int               `json:"remaining_count"`
	AuthAttempts   int               `json:"auth_attempts"`
	ShortURL       string            `json:"short_url,omitempty"`
	Notes          map[string]string `json:"notes,omitempty"`
	CreatedAt      int64             `json:"created_at"`
}

// CreateSubscriptionRequest mirrors POST /v1/subscriptions. Notes carry the
// only correlation between the gateway record and the local customer.
type CreateSubscriptionRequest struct {
	PlanID         string            `json:"plan_id"`
	TotalCount     int               `json:"total_count"`
	CustomerNotify int               `json:"customer_notify"`
	Notes          map[string]string `json:"notes,omitempty"`
}

type listResponse struct {
	Entity string         `json:"entity"`
	Count  int            `json:"count"`
	Items  []Subscription `json:"items"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewClientFromEnv builds a client from RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET.
func NewClientFromEnv() *Client {
	return &Client{
		KeyID:      strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret:  strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("RAZORPAY_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: gatewayTimeout,
		},
	}
}

// CreateSubscription creates a subscription upstream. The call is not
// idempotent at the gateway: calling twice creates two subscriptions, so
// callers hold a local reservation before invoking it.
func (c *Client) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error) {
	if strings.TrimSpace(req.PlanID) == "" {
		return nil, errors.New("plan_id is required")
	}
	if req.TotalCount <= 0 {
		return nil, errors.New("total_count must be positive")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var out Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("gateway returned subscription without id")
	}
	return &out, nil
}

// FetchSubscription loads a single subscription by gateway id.
func (c *Client) FetchSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return nil, errors.New("subscription id is required")
	}
	var out Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSubscriptions pages through recent subscriptions. The gateway cannot
// filter on notes server-side, so callers match correlation metadata locally.
func (c *Client) ListSubscriptions(ctx context.Context, count int) ([]Subscription, error) {
	if count <= 0 || count > 100 {
		count = 100
	}
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/subscriptions?count="+strconv.Itoa(count), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return errors.New("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET are not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Error.Description != "" {
			return fmt.Errorf("gateway request failed: status=%d code=%s: %s", resp.StatusCode, ae.Error.Code, ae.Error.Description)
		}
		return fmt.Errorf("gateway request failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}
