package valueobjects

type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// TransactionStatus is the platform-side processing state of an inbound
// gateway transaction. Complete is terminal.
type TransactionStatus string

const (
	TransactionStatusReceived TransactionStatus = "received"
	TransactionStatusError    TransactionStatus = "error"
	TransactionStatusComplete TransactionStatus = "complete"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusReceived, TransactionStatusError, TransactionStatusComplete:
		return true
	default:
		return false
	}
}

func (s TransactionStatus) IsComplete() bool {
	return s == TransactionStatusComplete
}

func (s TransactionStatus) String() string {
	return string(s)
}

// LedgerEntryType tags a client balance movement.
type LedgerEntryType string

const (
	// LedgerEntryTransaction is a credit funded by a gateway transaction.
	LedgerEntryTransaction LedgerEntryType = "transaction"
	// LedgerEntryInvoice is a debit that settles an invoice from credit.
	LedgerEntryInvoice LedgerEntryType = "invoice"
)

func (t LedgerEntryType) String() string {
	return string(t)
}
