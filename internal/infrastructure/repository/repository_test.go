package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/domain/payment"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/testdb"
	"github.com/piprapay/ppgateway/internal/shared/db"
	"github.com/piprapay/ppgateway/internal/shared/errors"
)

func createClient(t *testing.T, repo *ClientRepository) *billing.Client {
	t.Helper()
	c, err := billing.NewClient("Rahim", "Uddin", "rahim@example.com", vo.Currency("BDT"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func createInvoice(t *testing.T, repo *InvoiceRepository, clientID uint, total string) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(clientID, decimal.RequireFromString(total), vo.Currency("BDT"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv
}

func TestInvoiceRepository(t *testing.T) {
	gdb := testdb.New(t)
	clients := NewClientRepository(gdb)
	invoices := NewInvoiceRepository(gdb)
	ctx := context.Background()

	client := createClient(t, clients)

	t.Run("get by id round trips", func(t *testing.T) {
		inv := createInvoice(t, invoices, client.ID(), "500.00")

		found, err := invoices.GetByID(ctx, inv.ID())
		require.NoError(t, err)
		assert.Equal(t, client.ID(), found.ClientID())
		assert.True(t, found.Total().Equal(decimal.RequireFromString("500")))
		assert.Equal(t, vo.InvoiceStatusUnpaid, found.Status())
	})

	t.Run("missing invoice is not found", func(t *testing.T) {
		_, err := invoices.GetByID(ctx, 9999)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("mark paid transitions once", func(t *testing.T) {
		inv := createInvoice(t, invoices, client.ID(), "10")
		require.NoError(t, inv.MarkAsPaid())

		paid, err := invoices.MarkPaid(ctx, inv)
		require.NoError(t, err)
		assert.True(t, paid)

		paid, err = invoices.MarkPaid(ctx, inv)
		require.NoError(t, err)
		assert.False(t, paid)

		found, err := invoices.GetByID(ctx, inv.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.InvoiceStatusPaid, found.Status())
		assert.NotNil(t, found.PaidAt())
	})
}

func TestInvoiceRepository_ListPayableByClient(t *testing.T) {
	gdb := testdb.New(t)
	clients := NewClientRepository(gdb)
	invoices := NewInvoiceRepository(gdb)
	ctx := context.Background()

	client := createClient(t, clients)
	other := createClient(t, clients)

	first := createInvoice(t, invoices, client.ID(), "100")
	second := createInvoice(t, invoices, client.ID(), "200")
	paid := createInvoice(t, invoices, client.ID(), "300")
	createInvoice(t, invoices, other.ID(), "400")

	require.NoError(t, paid.MarkAsPaid())
	_, err := invoices.MarkPaid(ctx, paid)
	require.NoError(t, err)

	list, err := invoices.ListPayableByClient(ctx, client.ID())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID(), list[0].ID())
	assert.Equal(t, second.ID(), list[1].ID())
}

func TestClientRepository_AdjustBalance(t *testing.T) {
	gdb := testdb.New(t)
	clients := NewClientRepository(gdb)
	ctx := context.Background()

	client := createClient(t, clients)

	require.NoError(t, clients.AdjustBalance(ctx, client.ID(), decimal.RequireFromString("500.00")))
	require.NoError(t, clients.AdjustBalance(ctx, client.ID(), decimal.RequireFromString("-120.50")))

	found, err := clients.GetByID(ctx, client.ID())
	require.NoError(t, err)
	assert.Equal(t, "379.50", found.Balance().StringFixed(2))

	t.Run("overdraw is rejected", func(t *testing.T) {
		err := clients.AdjustBalance(ctx, client.ID(), decimal.RequireFromString("-1000"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInsufficientCredit))
		assert.Equal(t, http.StatusUnprocessableEntity, errors.GetAppError(err).Code)

		found, err := clients.GetByID(ctx, client.ID())
		require.NoError(t, err)
		assert.Equal(t, "379.50", found.Balance().StringFixed(2))
	})

	t.Run("unknown client", func(t *testing.T) {
		err := clients.AdjustBalance(ctx, 9999, decimal.NewFromInt(1))
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestTransactionRepository(t *testing.T) {
	gdb := testdb.New(t)
	txns := NewTransactionRepository(gdb)
	ctx := context.Background()

	newTxn := func(t *testing.T) *billing.Transaction {
		txn, err := billing.NewReceivedTransaction("piprapay", map[string]interface{}{"pp_id": "PP-1"})
		require.NoError(t, err)
		require.NoError(t, txns.Create(ctx, txn))
		return txn
	}

	t.Run("raw notification is stored", func(t *testing.T) {
		txn := newTxn(t)

		found, err := txns.GetByID(ctx, txn.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.TransactionStatusReceived, found.Status())
		assert.Equal(t, "PP-1", found.IPN()["pp_id"])
	})

	t.Run("complete if pending is conditional", func(t *testing.T) {
		txn := newTxn(t)
		require.NoError(t, txn.Complete(billing.Completion{
			InvoiceID:   42,
			TxnStatus:   "completed",
			TxnID:       "T1",
			Amount:      decimal.RequireFromString("500.00"),
			Currency:    vo.Currency("BDT"),
			PaymentType: "bkash",
		}))

		ok, err := txns.CompleteIfPending(ctx, txn)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = txns.CompleteIfPending(ctx, txn)
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := txns.GetByID(ctx, txn.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.TransactionStatusComplete, found.Status())
		assert.Equal(t, "T1", found.TxnID())
		assert.Equal(t, "bkash", found.PaymentType())
		require.NotNil(t, found.InvoiceID())
		assert.Equal(t, uint(42), *found.InvoiceID())
	})

	t.Run("update status never touches a complete row", func(t *testing.T) {
		txn := newTxn(t)
		require.NoError(t, txn.Complete(billing.Completion{InvoiceID: 1, TxnStatus: "completed", Amount: decimal.NewFromInt(1)}))
		_, err := txns.CompleteIfPending(ctx, txn)
		require.NoError(t, err)

		stale, err := billing.NewReceivedTransaction("piprapay", nil)
		require.NoError(t, err)
		stale.SetID(txn.ID())
		stale.MarkError("late failure")
		require.NoError(t, txns.UpdateStatus(ctx, stale))

		found, err := txns.GetByID(ctx, txn.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.TransactionStatusComplete, found.Status())
		assert.Empty(t, found.ErrorReason())
	})

	t.Run("missing transaction is not found", func(t *testing.T) {
		_, err := txns.GetByID(ctx, 9999)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestPaymentReceiptRepository_Claim(t *testing.T) {
	gdb := testdb.New(t)
	receipts := NewPaymentReceiptRepository(gdb)
	ctx := context.Background()

	newReceipt := func(t *testing.T, txnID uint) *payment.Receipt {
		r, err := payment.NewReceipt(payment.ReceiptParams{
			PPID:          "PP-42",
			Gateway:       "piprapay",
			TransactionID: txnID,
			InvoiceID:     42,
			ProviderTxnID: "T1",
			Amount:        decimal.RequireFromString("500.00"),
			Currency:      "BDT",
			PaymentMethod: "bkash",
			Verification:  map[string]interface{}{"status": "completed"},
		})
		require.NoError(t, err)
		return r
	}

	claimed, err := receipts.Claim(ctx, newReceipt(t, 1))
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = receipts.Claim(ctx, newReceipt(t, 2))
	require.NoError(t, err)
	assert.False(t, claimed)

	found, err := receipts.GetByPPID(ctx, "PP-42")
	require.NoError(t, err)
	assert.Equal(t, uint(1), found.TransactionID())
	assert.Equal(t, "completed", found.Verification()["status"])

	_, err = receipts.GetByPPID(ctx, "unknown")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestClaimRollsBackWithTransaction(t *testing.T) {
	gdb := testdb.New(t)
	receipts := NewPaymentReceiptRepository(gdb)
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	r, err := payment.NewReceipt(payment.ReceiptParams{
		PPID:          "PP-ROLLBACK",
		Gateway:       "piprapay",
		TransactionID: 1,
		InvoiceID:     1,
		Amount:        decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		claimed, err := receipts.Claim(txCtx, r)
		require.NoError(t, err)
		require.True(t, claimed)
		return errors.NewInternalError("abort")
	})
	require.Error(t, err)

	_, err = receipts.GetByPPID(ctx, "PP-ROLLBACK")
	assert.True(t, errors.IsNotFoundError(err))
}
