package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repositories return a not-found AppError when the record is absent. When
// ctx carries a database transaction they join it.

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	GetByID(ctx context.Context, id uint) (*Invoice, error)
	// MarkPaid stores the paid state only if the row is still unpaid and
	// reports whether this call made the transition.
	MarkPaid(ctx context.Context, invoice *Invoice) (bool, error)
	// ListPayableByClient returns unpaid invoices of a client, oldest first.
	ListPayableByClient(ctx context.Context, clientID uint) ([]*Invoice, error)
}

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id uint) (*Client, error)
	// AdjustBalance adds delta to the stored balance atomically. A debit that
	// would leave the balance negative fails with a conflict error.
	AdjustBalance(ctx context.Context, clientID uint, delta decimal.Decimal) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uint) (*Transaction, error)
	// CompleteIfPending writes the completed transaction only if the stored
	// row is not complete yet and reports whether this call made the
	// transition.
	CompleteIfPending(ctx context.Context, txn *Transaction) (bool, error)
	// UpdateStatus persists a non-terminal status change (e.g. error).
	UpdateStatus(ctx context.Context, txn *Transaction) error
}

type LedgerRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	ListByClient(ctx context.Context, clientID uint) ([]*LedgerEntry, error)
}
