package piprapay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piprapay/ppgateway/internal/application/payment/paymentgateway"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// providerStub answers each path with a fixed body and records requests.
type providerStub struct {
	responses map[string]string
	requests  map[string]map[string]interface{}
}

func newProvider(t *testing.T, responses map[string]string) (*providerStub, *Gateway) {
	t.Helper()
	p := &providerStub{responses: responses, requests: make(map[string]map[string]interface{})}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		_ = json.Unmarshal(body, &req)
		p.requests[r.URL.Path] = req
		_, _ = w.Write([]byte(p.responses[r.URL.Path]))
	}))
	t.Cleanup(srv.Close)

	return p, NewGateway(newTestClient(t, srv.URL), logger.NewDiscardLogger())
}

func chargeRequest() paymentgateway.ChargeRequest {
	return paymentgateway.ChargeRequest{
		FullName:    "Rahim Uddin",
		EmailMobile: "rahim@example.com",
		Amount:      decimal.RequireFromString("500"),
		Currency:    "BDT",
		InvoiceID:   42,
		RedirectURL: "https://billing.example.com/invoice/42",
		CancelURL:   "https://billing.example.com/cancel",
		WebhookURL:  "https://billing.example.com/api/ipn/piprapay",
		ReturnType:  paymentgateway.ReturnTypeGET,
	}
}

func TestGateway_CreateCharge(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantUsable  bool
		wantURL     string
		wantMessage string
	}{
		{
			name:       "success",
			body:       `{"status":true,"pp_url":"https://pay.piprapay.com/c/abc"}`,
			wantUsable: true,
			wantURL:    "https://pay.piprapay.com/c/abc",
		},
		{
			name:        "refused with message",
			body:        `{"status":false,"message":"limit exceeded"}`,
			wantMessage: "limit exceeded",
		},
		{
			name: "true without url",
			body: `{"status":true}`,
		},
		{
			name: "truthy string is not true",
			body: `{"status":"true","pp_url":"https://pay.piprapay.com/c/abc"}`,
		},
		{
			name: "empty object",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gw := newProvider(t, map[string]string{pathCreateCharge: tt.body})

			resp, err := gw.CreateCharge(context.Background(), chargeRequest())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUsable, resp.Usable())
			assert.Equal(t, tt.wantURL, resp.RedirectURL)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestGateway_CreateCharge_Payload(t *testing.T) {
	p, gw := newProvider(t, map[string]string{pathCreateCharge: `{"status":true,"pp_url":"https://x"}`})

	_, err := gw.CreateCharge(context.Background(), chargeRequest())
	require.NoError(t, err)

	got := p.requests[pathCreateCharge]
	require.NotNil(t, got)
	assert.Equal(t, "Rahim Uddin", got["full_name"])
	assert.Equal(t, "rahim@example.com", got["email_mobile"])
	assert.Equal(t, 500.0, got["amount"])
	assert.Equal(t, "BDT", got["currency"])
	assert.Equal(t, map[string]interface{}{"invoiceid": 42.0}, got["metadata"])
	assert.Equal(t, "https://billing.example.com/invoice/42", got["redirect_url"])
	assert.Equal(t, "GET", got["return_type"])
	assert.Equal(t, "https://billing.example.com/cancel", got["cancel_url"])
	assert.Equal(t, "https://billing.example.com/api/ipn/piprapay", got["webhook_url"])
}

func TestGateway_CreateCharge_ProtocolError(t *testing.T) {
	_, gw := newProvider(t, map[string]string{pathCreateCharge: `<html>`})

	resp, err := gw.CreateCharge(context.Background(), chargeRequest())
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.IsProtocolError(err))
}

func TestGateway_VerifyPayment_Completed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "numeric amount and invoice id",
			body: `{"status":"completed","transaction_id":"T1","amount":500.00,"currency":"BDT","payment_method":"bkash","metadata":{"invoiceid":42}}`,
		},
		{
			name: "string amount and invoice id",
			body: `{"status":"completed","transaction_id":"T1","amount":"500.00","currency":"BDT","payment_method":"bkash","metadata":{"invoiceid":"42"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, gw := newProvider(t, map[string]string{pathVerifyPayments: tt.body})

			v, err := gw.VerifyPayment(context.Background(), "PP-42")
			require.NoError(t, err)

			assert.Equal(t, "PP-42", p.requests[pathVerifyPayments]["pp_id"])
			assert.Equal(t, "PP-42", v.PPID())
			assert.Equal(t, "completed", v.Status())
			assert.Equal(t, "T1", v.TransactionID())
			assert.True(t, v.Amount().Equal(decimal.RequireFromString("500")))
			assert.Equal(t, "BDT", v.Currency())
			assert.Equal(t, "bkash", v.PaymentMethod())
			assert.Equal(t, uint(42), v.InvoiceID())
			assert.Equal(t, "bkash Transaction ID: T1", v.Description())
			assert.Equal(t, "completed", v.Raw()["status"])
		})
	}
}

func TestGateway_VerifyPayment_NotCompleted(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "pending", body: `{"status":"pending"}`, wantMessage: errors.UnknownProviderError},
		{name: "pending with message", body: `{"status":"pending","message":"awaiting payer"}`, wantMessage: "awaiting payer"},
		{name: "missing status", body: `{"message":"not found"}`, wantMessage: "not found"},
		{name: "boolean status", body: `{"status":true}`, wantMessage: errors.UnknownProviderError},
		{name: "case differs", body: `{"status":"Completed"}`, wantMessage: errors.UnknownProviderError},
		{name: "null body", body: `null`, wantMessage: errors.UnknownProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gw := newProvider(t, map[string]string{pathVerifyPayments: tt.body})

			v, err := gw.VerifyPayment(context.Background(), "PP-1")
			require.Error(t, err)
			assert.Nil(t, v)
			assert.True(t, errors.IsPaymentNotCompletedError(err))
			assert.Equal(t, tt.wantMessage, errors.GetAppError(err).Message)
		})
	}
}

func TestGateway_VerifyPayment_MalformedCompleted(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no invoice id", body: `{"status":"completed","transaction_id":"T1","amount":"5"}`},
		{name: "bad amount", body: `{"status":"completed","amount":"five","metadata":{"invoiceid":1}}`},
		{name: "zero amount", body: `{"status":"completed","amount":0,"metadata":{"invoiceid":1}}`},
		{name: "not an object", body: `["completed"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gw := newProvider(t, map[string]string{pathVerifyPayments: tt.body})

			v, err := gw.VerifyPayment(context.Background(), "PP-1")
			require.Error(t, err)
			assert.Nil(t, v)
			assert.True(t, errors.IsProtocolError(err))
		})
	}
}
