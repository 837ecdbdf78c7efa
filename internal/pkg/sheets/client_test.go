package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Action  string            `json:"action"`
	Payload map[string]string `json:"payload"`
}

func newScriptServer(t *testing.T, respond func(call recordedCall) interface{}) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call recordedCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		*calls = append(*calls, call)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(respond(call)))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func newTestClient(url string) *Client {
	return &Client{
		ScriptURL:  url,
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestValidateLoginEnvelope(t *testing.T) {
	srv, calls := newScriptServer(t, func(call recordedCall) interface{} {
		return LoginResult{Valid: true, CustomerID: "cust_9", Name: "Asha", SubscriptionActive: true}
	})

	client := newTestClient(srv.URL)
	result, err := client.ValidateLogin(context.Background(), "asha@example.com", "pw")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "cust_9", result.CustomerID)
	assert.True(t, result.SubscriptionActive)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, ActionValidateLogin, call.Action)
	assert.Equal(t, "asha@example.com", call.Payload["email"])
	assert.Equal(t, "pw", call.Payload["password"])
}

func TestGetPaymentHistoryUnwrapsPayments(t *testing.T) {
	srv, calls := newScriptServer(t, func(call recordedCall) interface{} {
		return map[string]interface{}{
			"payments": []PaymentRecord{
				{PaymentID: "pay_1", SubscriptionID: "sub_1", Amount: 9900, Currency: "INR", Status: "verified", PaidAt: "2025-08-01"},
				{PaymentID: "pay_2", SubscriptionID: "sub_1", Amount: 9900, Currency: "INR", Status: "verified", PaidAt: "2025-09-01"},
			},
		}
	})

	client := newTestClient(srv.URL)
	payments, err := client.GetPaymentHistory(context.Background(), "cust_9")
	require.NoError(t, err)

	require.Len(t, payments, 2)
	assert.Equal(t, "pay_1", payments[0].PaymentID)
	assert.Equal(t, int64(9900), payments[0].Amount)

	require.Len(t, *calls, 1)
	assert.Equal(t, ActionGetPaymentHistory, (*calls)[0].Action)
	assert.Equal(t, "cust_9", (*calls)[0].Payload["customerId"])
}

func TestDownloadReportEmptyDataIsUnavailable(t *testing.T) {
	srv, _ := newScriptServer(t, func(call recordedCall) interface{} {
		return ReportPayload{FileName: "report.pdf", MimeType: "application/pdf"}
	})

	client := newTestClient(srv.URL)
	_, err := client.DownloadReport(context.Background(), "rep_1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDownloadReportReturnsPayload(t *testing.T) {
	srv, calls := newScriptServer(t, func(call recordedCall) interface{} {
		return ReportPayload{FileName: "q2.pdf", MimeType: "application/pdf", Data: "JVBERi0xLjQ="}
	})

	client := newTestClient(srv.URL)
	payload, err := client.DownloadReport(context.Background(), "rep_1")
	require.NoError(t, err)

	assert.Equal(t, "q2.pdf", payload.FileName)
	assert.Equal(t, "JVBERi0xLjQ=", payload.Data)
	assert.Equal(t, "rep_1", (*calls)[0].Payload["reportId"])
}

func TestGetLogoImage(t *testing.T) {
	srv, calls := newScriptServer(t, func(call recordedCall) interface{} {
		return map[string]string{"image": "data:image/png;base64,iVBOR"}
	})

	client := newTestClient(srv.URL)
	image, err := client.GetLogoImage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,iVBOR", image)
	assert.Equal(t, ActionGetLogoImage, (*calls)[0].Action)
}

func TestBackendErrorsMapToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(srv.URL)
	_, err := client.ValidateLogin(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestUnreachableBackendIsUnavailable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.GetPaymentHistory(context.Background(), "cust_1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestUnconfiguredURLIsUnavailable(t *testing.T) {
	client := &Client{HTTPClient: http.DefaultClient}
	_, err := client.GetLogoImage(context.Background())
	require.True(t, errors.Is(err, ErrUnavailable))
}
