package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/shared/biztime"
)

// ErrTransactionAlreadyComplete is returned when a completed transaction is
// asked to complete again.
var ErrTransactionAlreadyComplete = errors.New("transaction already complete")

// Transaction is the platform's record of one inbound gateway call. The
// raw IPN payload is kept for audit only; nothing reads money from it.
type Transaction struct {
	id        uint
	gateway   string
	invoiceID *uint
	ipn       map[string]interface{}
	status    vo.TransactionStatus

	txnStatus   string
	txnID       string
	amount      decimal.Decimal
	currency    vo.Currency
	paymentType string
	errorReason string

	createdAt time.Time
	updatedAt time.Time
}

func NewReceivedTransaction(gateway string, ipn map[string]interface{}) (*Transaction, error) {
	if gateway == "" {
		return nil, fmt.Errorf("gateway is required")
	}
	if ipn == nil {
		ipn = make(map[string]interface{})
	}

	now := biztime.NowUTC()
	return &Transaction{
		gateway:   gateway,
		ipn:       ipn,
		status:    vo.TransactionStatusReceived,
		amount:    decimal.Zero,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type TransactionReconstructParams struct {
	ID          uint
	Gateway     string
	InvoiceID   *uint
	IPN         map[string]interface{}
	Status      vo.TransactionStatus
	TxnStatus   string
	TxnID       string
	Amount      decimal.Decimal
	Currency    vo.Currency
	PaymentType string
	ErrorReason string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ReconstructTransaction(p TransactionReconstructParams) *Transaction {
	return &Transaction{
		id:          p.ID,
		gateway:     p.Gateway,
		invoiceID:   p.InvoiceID,
		ipn:         p.IPN,
		status:      p.Status,
		txnStatus:   p.TxnStatus,
		txnID:       p.TxnID,
		amount:      p.Amount,
		currency:    p.Currency,
		paymentType: p.PaymentType,
		errorReason: p.ErrorReason,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}
}

// Completion carries the verified fields written onto a transaction.
type Completion struct {
	InvoiceID   uint
	TxnStatus   string
	TxnID       string
	Amount      decimal.Decimal
	Currency    vo.Currency
	PaymentType string
}

// Complete moves the transaction to its terminal state.
func (t *Transaction) Complete(c Completion) error {
	if t.status.IsComplete() {
		return ErrTransactionAlreadyComplete
	}
	if c.InvoiceID == 0 {
		return fmt.Errorf("invoice ID is required to complete transaction")
	}

	invoiceID := c.InvoiceID
	t.invoiceID = &invoiceID
	t.txnStatus = c.TxnStatus
	t.txnID = c.TxnID
	t.amount = c.Amount
	t.currency = c.Currency
	t.paymentType = c.PaymentType
	t.errorReason = ""
	t.status = vo.TransactionStatusComplete
	t.updatedAt = biztime.NowUTC()
	return nil
}

// MarkError records a failed processing attempt. Completed transactions are
// left untouched.
func (t *Transaction) MarkError(reason string) {
	if t.status.IsComplete() {
		return
	}
	t.status = vo.TransactionStatusError
	t.errorReason = reason
	t.updatedAt = biztime.NowUTC()
}

func (t *Transaction) SetID(id uint) {
	t.id = id
}

func (t *Transaction) ID() uint                     { return t.id }
func (t *Transaction) Gateway() string              { return t.gateway }
func (t *Transaction) InvoiceID() *uint             { return t.invoiceID }
func (t *Transaction) IPN() map[string]interface{}  { return t.ipn }
func (t *Transaction) Status() vo.TransactionStatus { return t.status }
func (t *Transaction) TxnStatus() string            { return t.txnStatus }
func (t *Transaction) TxnID() string                { return t.txnID }
func (t *Transaction) Amount() decimal.Decimal      { return t.amount }
func (t *Transaction) Currency() vo.Currency        { return t.currency }
func (t *Transaction) PaymentType() string          { return t.paymentType }
func (t *Transaction) ErrorReason() string          { return t.errorReason }
func (t *Transaction) CreatedAt() time.Time         { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time         { return t.updatedAt }
