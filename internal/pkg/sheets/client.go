// Package sheets talks to the spreadsheet-backed Apps Script backend. The
// backend exposes a single URL and dispatches on an "action" discriminator;
// the response shape varies by action.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finsightlabs/finsight/internal/pkg/env"
)

const (
	ActionInitiatePayment   = "initiatePayment"
	ActionVerifyPayment     = "verifyPayment"
	ActionGetPaymentHistory = "getPaymentHistory"
	ActionValidateLogin     = "validateLogin"
	ActionDownloadReport    = "downloadReport"
	ActionGetLogoImage      = "getLogoImage"
)

// ErrUnavailable marks an unreachable or failing script backend. Read paths
// fall back to empty results; write paths surface a generic failure.
var ErrUnavailable = errors.New("script backend unavailable")

// Backend is the constructor-injected capability set of the script backend.
// It is never modelled as ambient global state.
type Backend interface {
	ValidateLogin(ctx context.Context, email, password string) (*LoginResult, error)
	GetPaymentHistory(ctx context.Context, customerID string) ([]PaymentRecord, error)
	DownloadReport(ctx context.Context, reportID string) (*ReportPayload, error)
	GetLogoImage(ctx context.Context) (string, error)
}

// LoginResult is the validateLogin response projection.
type LoginResult struct {
	Valid              bool   `json:"valid"`
	CustomerID         string `json:"customerId"`
	Name               string `json:"name"`
	SubscriptionActive bool   `json:"subscriptionActive"`
}

// PaymentRecord is one row of getPaymentHistory.
type PaymentRecord struct {
	PaymentID      string `json:"paymentId"`
	SubscriptionID string `json:"subscriptionId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	PaidAt         string `json:"paidAt"`
}

// ReportPayload is the downloadReport response: a file name plus base64 data.
type ReportPayload struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Client posts {action, payload} envelopes to the configured script URL.
type Client struct {
	ScriptURL  string
	HTTPClient *http.Client
}

var _ Backend = (*Client)(nil)

// NewClientFromEnv builds a client from SHEETS_SCRIPT_URL.
func NewClientFromEnv() *Client {
	return &Client{
		ScriptURL: strings.TrimSpace(env.GetEnv("SHEETS_SCRIPT_URL", "")),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) ValidateLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.call(ctx, ActionValidateLogin, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPaymentHistory(ctx context.Context, customerID string) ([]PaymentRecord, error) {
	var out struct {
		Payments []PaymentRecord `json:"payments"`
	}
	err := c.call(ctx, ActionGetPaymentHistory, map[string]string{
		"customerId": customerID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Payments, nil
}

func (c *Client) DownloadReport(ctx context.Context, reportID string) (*ReportPayload, error) {
	var out ReportPayload
	err := c.call(ctx, ActionDownloadReport, map[string]string{
		"reportId": reportID,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data == "" {
		return nil, fmt.Errorf("report %s: empty payload: %w", reportID, ErrUnavailable)
	}
	return &out, nil
}

func (c *Client) GetLogoImage(ctx context.Context) (string, error) {
	var out struct {
		Image string `json:"image"`
	}
	if err := c.call(ctx, ActionGetLogoImage, nil, &out); err != nil {
		return "", err
	}
	return out.Image, nil
}

type envelope struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

func (c *Client) call(ctx context.Context, action string, payload, out interface{}) error {
	if c.ScriptURL == "" {
		return fmt.Errorf("SHEETS_SCRIPT_URL is not configured: %w", ErrUnavailable)
	}

	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ScriptURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("script call %s: %v: %w", action, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("script call %s: status=%d: %w", action, resp.StatusCode, ErrUnavailable)
	}

	return json.Unmarshal(raw, out)
}
