package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		KeyID:      "rzp_test_key",
		KeySecret:  "rzp_test_secret",
		APIBaseURL: baseURL,
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestCreateSubscriptionSendsBasicAuthAndBody(t *testing.T) {
	t.Parallel()

	var gotReq CreateSubscriptionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Errorf("basic auth = %s:%s ok=%v", user, pass, ok)
		}
		if r.Method != http.MethodPost || r.URL.Path != "/subscriptions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Subscription{
			ID:         "sub_ABC123",
			Entity:     "subscription",
			PlanID:     gotReq.PlanID,
			Status:     "created",
			TotalCount: gotReq.TotalCount,
			ShortURL:   "https://rzp.io/i/abc",
			Notes:      gotReq.Notes,
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	sub, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{
		PlanID:         "plan_xyz",
		TotalCount:     12,
		CustomerNotify: 1,
		Notes:          map[string]string{"customer_id": "cust_1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ID != "sub_ABC123" {
		t.Fatalf("id = %s", sub.ID)
	}
	if sub.ShortURL != "https://rzp.io/i/abc" {
		t.Fatalf("short url = %s", sub.ShortURL)
	}
	if gotReq.PlanID != "plan_xyz" || gotReq.TotalCount != 12 || gotReq.CustomerNotify != 1 {
		t.Fatalf("request body = %+v", gotReq)
	}
	if gotReq.Notes["customer_id"] != "cust_1" {
		t.Fatalf("notes = %+v", gotReq.Notes)
	}
}

func TestCreateSubscriptionValidatesInput(t *testing.T) {
	t.Parallel()

	client := newTestClient("http://127.0.0.1:0")

	if _, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{TotalCount: 12}); err == nil {
		t.Fatal("missing plan_id accepted")
	}
	if _, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{PlanID: "plan_x"}); err == nil {
		t.Fatal("zero total_count accepted")
	}
}

func TestCreateSubscriptionRejectsMissingID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entity":"subscription","status":"created"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{PlanID: "plan_x", TotalCount: 1})
	if err == nil {
		t.Fatal("subscription without id accepted")
	}
}

func TestFetchSubscriptionEscapesID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions/sub_123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Subscription{ID: "sub_123", Status: "active"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	sub, err := client.FetchSubscription(context.Background(), " sub_123 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != "active" {
		t.Fatalf("status = %s", sub.Status)
	}

	if _, err := client.FetchSubscription(context.Background(), "  "); err == nil {
		t.Fatal("blank id accepted")
	}
}

func TestListSubscriptionsClampsCount(t *testing.T) {
	t.Parallel()

	var gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entity":"collection","count":2,"items":[{"id":"sub_1","status":"active"},{"id":"sub_2","status":"halted"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	subs, err := client.ListSubscriptions(context.Background(), 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCount != "100" {
		t.Fatalf("count param = %s, want 100", gotCount)
	}
	if len(subs) != 2 || subs[0].ID != "sub_1" || subs[1].Status != "halted" {
		t.Fatalf("items = %+v", subs)
	}
}

func TestGatewayErrorResponseIsSurfaced(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The plan id provided does not exist"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{PlanID: "plan_x", TotalCount: 1})
	if err == nil {
		t.Fatal("error response accepted")
	}
	if !strings.Contains(err.Error(), "BAD_REQUEST_ERROR") || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("error lost gateway detail: %v", err)
	}
}

func TestMissingCredentialsFailFast(t *testing.T) {
	t.Parallel()

	client := &Client{APIBaseURL: "http://127.0.0.1:0", HTTPClient: http.DefaultClient}
	if _, err := client.ListSubscriptions(context.Background(), 10); err == nil {
		t.Fatal("unconfigured client made a request")
	}
}
