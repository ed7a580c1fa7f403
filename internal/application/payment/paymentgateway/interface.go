package paymentgateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the outbound side of a hosted-payment-page provider.
type PaymentGateway interface {
	// CreateCharge asks the provider for a hosted payment page. The returned
	// response is what the provider said; callers decide whether it is usable.
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
	// VerifyPayment looks a charge up by its provider ID and returns it only
	// when the provider reports it completed. Any other outcome is an error.
	VerifyPayment(ctx context.Context, ppID string) (*VerifiedPayment, error)
}

type ReturnType string

const (
	ReturnTypeGET  ReturnType = "GET"
	ReturnTypePOST ReturnType = "POST"
)

// StatusCompleted is the only provider status that counts as money received.
const StatusCompleted = "completed"

// ChargeRequest is built fresh for every invoice and never persisted.
type ChargeRequest struct {
	FullName    string          `validate:"required"`
	EmailMobile string          `validate:"required"`
	Amount      decimal.Decimal `validate:"-"`
	Currency    string          `validate:"required,len=3"`
	InvoiceID   uint            `validate:"required"`
	RedirectURL string          `validate:"required,url"`
	CancelURL   string          `validate:"omitempty,url"`
	WebhookURL  string          `validate:"omitempty,url"`
	ReturnType  ReturnType      `validate:"oneof=GET POST"`
}

// ChargeResponse mirrors the provider's answer. RedirectURL is set only when
// OK is true.
type ChargeResponse struct {
	OK          bool
	RedirectURL string
	Message     string
}

// Usable reports whether the payer can be sent to RedirectURL.
func (r *ChargeResponse) Usable() bool {
	return r != nil && r.OK && r.RedirectURL != ""
}
