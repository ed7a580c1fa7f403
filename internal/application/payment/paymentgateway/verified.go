package paymentgateway

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// VerifiedPayment is a payment as reported by the provider's own verify
// endpoint. It is the only input reconciliation accepts; nothing in an
// inbound notification is ever turned into one. Gateway adapters construct it
// through NewVerifiedPayment after checking the provider status.
type VerifiedPayment struct {
	ppID          string
	status        string
	transactionID string
	amount        decimal.Decimal
	currency      string
	paymentMethod string
	invoiceID     uint
	raw           map[string]interface{}
}

type VerifiedPaymentParams struct {
	PPID          string
	Status        string
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	InvoiceID     uint
	Raw           map[string]interface{}
}

// NewVerifiedPayment builds a VerifiedPayment from a provider verify
// response. Outside tests, only gateway adapters under
// internal/infrastructure/payment may call it, and only with data read from
// that response. A test in this package rejects other callers.
func NewVerifiedPayment(p VerifiedPaymentParams) (*VerifiedPayment, error) {
	if p.Status != StatusCompleted {
		return nil, fmt.Errorf("verified payment must be %q, got %q", StatusCompleted, p.Status)
	}
	if p.PPID == "" {
		return nil, fmt.Errorf("pp_id is required")
	}
	if p.InvoiceID == 0 {
		return nil, fmt.Errorf("verified payment carries no invoice ID")
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("verified payment amount must be positive, got %s", p.Amount)
	}

	return &VerifiedPayment{
		ppID:          p.PPID,
		status:        p.Status,
		transactionID: p.TransactionID,
		amount:        p.Amount,
		currency:      p.Currency,
		paymentMethod: p.PaymentMethod,
		invoiceID:     p.InvoiceID,
		raw:           p.Raw,
	}, nil
}

func (v *VerifiedPayment) PPID() string                { return v.ppID }
func (v *VerifiedPayment) Status() string              { return v.status }
func (v *VerifiedPayment) TransactionID() string       { return v.transactionID }
func (v *VerifiedPayment) Amount() decimal.Decimal     { return v.amount }
func (v *VerifiedPayment) Currency() string            { return v.currency }
func (v *VerifiedPayment) PaymentMethod() string       { return v.paymentMethod }
func (v *VerifiedPayment) InvoiceID() uint             { return v.invoiceID }
func (v *VerifiedPayment) Raw() map[string]interface{} { return v.raw }

// Description is the ledger text for the credit this payment funds.
func (v *VerifiedPayment) Description() string {
	return v.paymentMethod + " Transaction ID: " + v.transactionID
}
