// Package payment holds the record of provider payments that have been
// applied to billing. A receipt exists at most once per provider charge.
package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/piprapay/ppgateway/internal/shared/biztime"
)

// Receipt claims a provider payment (pp_id) for one platform transaction.
// Its uniqueness on PPID is what makes reconciliation apply funds once.
type Receipt struct {
	id            uint
	ppID          string
	gateway       string
	transactionID uint
	invoiceID     uint
	providerTxnID string
	amount        decimal.Decimal
	currency      string
	paymentMethod string
	verification  map[string]interface{}
	createdAt     time.Time
}

type ReceiptParams struct {
	PPID          string
	Gateway       string
	TransactionID uint
	InvoiceID     uint
	ProviderTxnID string
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	Verification  map[string]interface{}
}

func NewReceipt(p ReceiptParams) (*Receipt, error) {
	if p.PPID == "" {
		return nil, fmt.Errorf("pp_id is required")
	}
	if p.TransactionID == 0 {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if p.InvoiceID == 0 {
		return nil, fmt.Errorf("invoice ID is required")
	}

	return &Receipt{
		ppID:          p.PPID,
		gateway:       p.Gateway,
		transactionID: p.TransactionID,
		invoiceID:     p.InvoiceID,
		providerTxnID: p.ProviderTxnID,
		amount:        p.Amount,
		currency:      p.Currency,
		paymentMethod: p.PaymentMethod,
		verification:  p.Verification,
		createdAt:     biztime.NowUTC(),
	}, nil
}

type ReceiptReconstructParams struct {
	ReceiptParams
	ID        uint
	CreatedAt time.Time
}

func ReconstructReceipt(p ReceiptReconstructParams) *Receipt {
	return &Receipt{
		id:            p.ID,
		ppID:          p.PPID,
		gateway:       p.Gateway,
		transactionID: p.TransactionID,
		invoiceID:     p.InvoiceID,
		providerTxnID: p.ProviderTxnID,
		amount:        p.Amount,
		currency:      p.Currency,
		paymentMethod: p.PaymentMethod,
		verification:  p.Verification,
		createdAt:     p.CreatedAt,
	}
}

func (r *Receipt) SetID(id uint) {
	r.id = id
}

func (r *Receipt) ID() uint                             { return r.id }
func (r *Receipt) PPID() string                         { return r.ppID }
func (r *Receipt) Gateway() string                      { return r.gateway }
func (r *Receipt) TransactionID() uint                  { return r.transactionID }
func (r *Receipt) InvoiceID() uint                      { return r.invoiceID }
func (r *Receipt) ProviderTxnID() string                { return r.providerTxnID }
func (r *Receipt) Amount() decimal.Decimal              { return r.amount }
func (r *Receipt) Currency() string                     { return r.currency }
func (r *Receipt) PaymentMethod() string                { return r.paymentMethod }
func (r *Receipt) Verification() map[string]interface{} { return r.verification }
func (r *Receipt) CreatedAt() time.Time                 { return r.createdAt }
