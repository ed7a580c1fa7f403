package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
)

// =============================================================================
// Invoice
// =============================================================================

func TestNewInvoice(t *testing.T) {
	inv, err := NewInvoice(1, decimal.RequireFromString("500.00"), "BDT")
	require.NoError(t, err)

	assert.Equal(t, vo.InvoiceStatusUnpaid, inv.Status())
	assert.True(t, inv.IsPayable())
	assert.Nil(t, inv.PaidAt())

	_, err = NewInvoice(0, decimal.NewFromInt(1), "BDT")
	assert.Error(t, err)

	_, err = NewInvoice(1, decimal.Zero, "BDT")
	assert.Error(t, err)
}

func TestInvoice_MarkAsPaid(t *testing.T) {
	inv, err := NewInvoice(1, decimal.NewFromInt(10), "BDT")
	require.NoError(t, err)

	require.NoError(t, inv.MarkAsPaid())
	assert.Equal(t, vo.InvoiceStatusPaid, inv.Status())
	require.NotNil(t, inv.PaidAt())

	paidAt := *inv.PaidAt()
	require.NoError(t, inv.MarkAsPaid(), "paying twice is a no-op")
	assert.Equal(t, paidAt, *inv.PaidAt())
}

func TestInvoice_MarkAsPaid_Cancelled(t *testing.T) {
	inv := ReconstructInvoice(InvoiceReconstructParams{
		ID:       3,
		ClientID: 1,
		Total:    decimal.NewFromInt(10),
		Status:   vo.InvoiceStatusCancelled,
	})

	assert.Error(t, inv.MarkAsPaid())
	assert.False(t, inv.IsPayable())
}

// =============================================================================
// Client
// =============================================================================

func TestClient_FullName(t *testing.T) {
	c, err := NewClient("Rahim", "Uddin", "rahim@example.com", "BDT")
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin", c.FullName())

	c, err = NewClient("", "Uddin", "rahim@example.com", "BDT")
	require.NoError(t, err)
	assert.Equal(t, "Uddin", c.FullName())

	_, err = NewClient("a", "b", " ", "BDT")
	assert.Error(t, err)
}

func TestClient_Funds(t *testing.T) {
	c, err := NewClient("Rahim", "Uddin", "rahim@example.com", "BDT")
	require.NoError(t, err)

	require.NoError(t, c.AddFunds(decimal.RequireFromString("500.00")))
	assert.True(t, c.Balance().Equal(decimal.RequireFromString("500")))

	assert.Error(t, c.AddFunds(decimal.Zero))
	assert.Error(t, c.AddFunds(decimal.NewFromInt(-1)))

	assert.True(t, c.CanCover(decimal.NewFromInt(500)))
	assert.False(t, c.CanCover(decimal.RequireFromString("500.01")))

	require.NoError(t, c.Spend(decimal.NewFromInt(200)))
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(300)))
	assert.Error(t, c.Spend(decimal.NewFromInt(301)))
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(300)), "failed spend leaves balance")
}

// =============================================================================
// Transaction
// =============================================================================

func TestTransaction_Complete(t *testing.T) {
	txn, err := NewReceivedTransaction("piprapay", map[string]interface{}{"pp_id": "PP1"})
	require.NoError(t, err)
	assert.Equal(t, vo.TransactionStatusReceived, txn.Status())

	completion := Completion{
		InvoiceID:   42,
		TxnStatus:   "completed",
		TxnID:       "T1",
		Amount:      decimal.RequireFromString("500.00"),
		Currency:    "BDT",
		PaymentType: "bkash",
	}
	require.NoError(t, txn.Complete(completion))

	assert.Equal(t, vo.TransactionStatusComplete, txn.Status())
	require.NotNil(t, txn.InvoiceID())
	assert.Equal(t, uint(42), *txn.InvoiceID())
	assert.Equal(t, "T1", txn.TxnID())
	assert.Equal(t, "bkash", txn.PaymentType())

	assert.ErrorIs(t, txn.Complete(completion), ErrTransactionAlreadyComplete)
}

func TestTransaction_MarkError(t *testing.T) {
	txn, err := NewReceivedTransaction("piprapay", nil)
	require.NoError(t, err)
	assert.NotNil(t, txn.IPN())

	txn.MarkError("payment not completed")
	assert.Equal(t, vo.TransactionStatusError, txn.Status())
	assert.Equal(t, "payment not completed", txn.ErrorReason())

	require.NoError(t, txn.Complete(Completion{InvoiceID: 1, Amount: decimal.NewFromInt(1)}))
	assert.Empty(t, txn.ErrorReason())

	txn.MarkError("late failure")
	assert.Equal(t, vo.TransactionStatusComplete, txn.Status(), "complete is terminal")
}

func TestNewLedgerEntry(t *testing.T) {
	e, err := NewLedgerEntry(1, decimal.NewFromInt(500), "BDT", "bkash Transaction ID: T1", vo.LedgerEntryTransaction, 9)
	require.NoError(t, err)
	assert.Equal(t, vo.LedgerEntryTransaction, e.Type())
	assert.Equal(t, uint(9), e.RelID())

	_, err = NewLedgerEntry(1, decimal.Zero, "BDT", "", vo.LedgerEntryTransaction, 9)
	assert.Error(t, err)
}
