package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/shared/biztime"
)

// LedgerEntry is one movement of a client's credit balance. Credits are
// positive, debits negative. RelID points at the record that caused it
// (transaction ID for credits, invoice ID for debits).
type LedgerEntry struct {
	id          uint
	clientID    uint
	amount      decimal.Decimal
	currency    vo.Currency
	description string
	entryType   vo.LedgerEntryType
	relID       uint
	createdAt   time.Time
}

func NewLedgerEntry(clientID uint, amount decimal.Decimal, currency vo.Currency, description string, entryType vo.LedgerEntryType, relID uint) (*LedgerEntry, error) {
	if clientID == 0 {
		return nil, fmt.Errorf("client ID is required")
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("ledger amount must not be zero")
	}

	return &LedgerEntry{
		clientID:    clientID,
		amount:      amount,
		currency:    currency,
		description: description,
		entryType:   entryType,
		relID:       relID,
		createdAt:   biztime.NowUTC(),
	}, nil
}

type LedgerEntryReconstructParams struct {
	ID          uint
	ClientID    uint
	Amount      decimal.Decimal
	Currency    vo.Currency
	Description string
	Type        vo.LedgerEntryType
	RelID       uint
	CreatedAt   time.Time
}

func ReconstructLedgerEntry(p LedgerEntryReconstructParams) *LedgerEntry {
	return &LedgerEntry{
		id:          p.ID,
		clientID:    p.ClientID,
		amount:      p.Amount,
		currency:    p.Currency,
		description: p.Description,
		entryType:   p.Type,
		relID:       p.RelID,
		createdAt:   p.CreatedAt,
	}
}

func (e *LedgerEntry) SetID(id uint) {
	e.id = id
}

func (e *LedgerEntry) ID() uint                 { return e.id }
func (e *LedgerEntry) ClientID() uint           { return e.clientID }
func (e *LedgerEntry) Amount() decimal.Decimal  { return e.amount }
func (e *LedgerEntry) Currency() vo.Currency    { return e.currency }
func (e *LedgerEntry) Description() string      { return e.description }
func (e *LedgerEntry) Type() vo.LedgerEntryType { return e.entryType }
func (e *LedgerEntry) RelID() uint              { return e.relID }
func (e *LedgerEntry) CreatedAt() time.Time     { return e.createdAt }
