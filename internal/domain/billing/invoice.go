package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/shared/biztime"
)

type Invoice struct {
	id       uint
	clientID uint
	total    decimal.Decimal
	currency vo.Currency
	status   vo.InvoiceStatus
	paidAt   *time.Time

	createdAt time.Time
	updatedAt time.Time
}

func NewInvoice(clientID uint, total decimal.Decimal, currency vo.Currency) (*Invoice, error) {
	if clientID == 0 {
		return nil, fmt.Errorf("client ID is required")
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("invoice total must be positive")
	}

	now := biztime.NowUTC()
	return &Invoice{
		clientID:  clientID,
		total:     total,
		currency:  currency,
		status:    vo.InvoiceStatusUnpaid,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type InvoiceReconstructParams struct {
	ID        uint
	ClientID  uint
	Total     decimal.Decimal
	Currency  vo.Currency
	Status    vo.InvoiceStatus
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructInvoice(p InvoiceReconstructParams) *Invoice {
	return &Invoice{
		id:        p.ID,
		clientID:  p.ClientID,
		total:     p.Total,
		currency:  p.Currency,
		status:    p.Status,
		paidAt:    p.PaidAt,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
}

// MarkAsPaid settles the invoice. Paying a paid invoice is a no-op.
func (i *Invoice) MarkAsPaid() error {
	if i.status == vo.InvoiceStatusPaid {
		return nil
	}
	if i.status != vo.InvoiceStatusUnpaid {
		return fmt.Errorf("cannot pay invoice %d with status %s", i.id, i.status)
	}

	now := biztime.NowUTC()
	i.status = vo.InvoiceStatusPaid
	i.paidAt = &now
	i.updatedAt = now
	return nil
}

func (i *Invoice) IsPayable() bool {
	return i.status == vo.InvoiceStatusUnpaid
}

func (i *Invoice) SetID(id uint) {
	i.id = id
}

func (i *Invoice) ID() uint                 { return i.id }
func (i *Invoice) ClientID() uint           { return i.clientID }
func (i *Invoice) Total() decimal.Decimal   { return i.total }
func (i *Invoice) Currency() vo.Currency    { return i.currency }
func (i *Invoice) Status() vo.InvoiceStatus { return i.status }
func (i *Invoice) PaidAt() *time.Time       { return i.paidAt }
func (i *Invoice) CreatedAt() time.Time     { return i.createdAt }
func (i *Invoice) UpdatedAt() time.Time     { return i.updatedAt }
