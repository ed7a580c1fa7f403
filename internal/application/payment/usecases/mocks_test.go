package usecases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	billingapp "github.com/piprapay/ppgateway/internal/application/billing"
	"github.com/piprapay/ppgateway/internal/application/payment/paymentgateway"
	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/testdb"
	"github.com/piprapay/ppgateway/internal/infrastructure/repository"
	"github.com/piprapay/ppgateway/internal/shared/db"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCharge(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.ChargeResponse), args.Error(1)
}

func (m *mockGateway) VerifyPayment(ctx context.Context, ppID string) (*paymentgateway.VerifiedPayment, error) {
	args := m.Called(ctx, ppID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.VerifiedPayment), args.Error(1)
}

type mockApplier struct {
	mock.Mock
}

func (m *mockApplier) Apply(ctx context.Context, transactionID uint, verified *paymentgateway.VerifiedPayment) (*ReconcileResult, error) {
	args := m.Called(ctx, transactionID, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReconcileResult), args.Error(1)
}

type stubGuard struct {
	ok       bool
	err      error
	released int
}

func (g *stubGuard) Acquire(context.Context, string) (func(), bool, error) {
	if g.err != nil || !g.ok {
		return nil, g.ok, g.err
	}
	return func() { g.released++ }, true, nil
}

// billingFixture is a sqlite-backed billing store with real repositories.
type billingFixture struct {
	db       *gorm.DB
	invoices *repository.InvoiceRepository
	clients  *repository.ClientRepository
	txns     *repository.TransactionRepository
	ledger   *repository.LedgerRepository
	receipts *repository.PaymentReceiptRepository
	funds    *billingapp.FundsService
	log      logger.Interface
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	gdb := testdb.New(t)
	f := &billingFixture{
		db:       gdb,
		invoices: repository.NewInvoiceRepository(gdb),
		clients:  repository.NewClientRepository(gdb),
		txns:     repository.NewTransactionRepository(gdb),
		ledger:   repository.NewLedgerRepository(gdb),
		receipts: repository.NewPaymentReceiptRepository(gdb),
		log:      logger.NewDiscardLogger(),
	}
	f.funds = billingapp.NewFundsService(f.clients, f.invoices, f.ledger, f.log)
	return f
}

func (f *billingFixture) reconciler() *ReconcilePaymentUseCase {
	return NewReconcilePaymentUseCase(
		f.invoices, f.txns, f.clients, f.receipts, f.funds,
		db.NewTransactionManager(f.db), "piprapay", f.log,
	)
}

// client creates a client; a non-zero id is kept as the primary key.
func (f *billingFixture) client(t *testing.T, id uint) *billing.Client {
	t.Helper()
	c, err := billing.NewClient("Rahim", "Uddin", "rahim@example.com", vo.Currency("BDT"))
	require.NoError(t, err)
	c.SetID(id)
	require.NoError(t, f.clients.Create(context.Background(), c))
	return c
}

func (f *billingFixture) invoice(t *testing.T, id, clientID uint, total string) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(clientID, decimal.RequireFromString(total), vo.Currency("BDT"))
	require.NoError(t, err)
	inv.SetID(id)
	require.NoError(t, f.invoices.Create(context.Background(), inv))
	return inv
}

func (f *billingFixture) transaction(t *testing.T) *billing.Transaction {
	t.Helper()
	txn, err := billing.NewReceivedTransaction("piprapay", map[string]interface{}{"pp_id": "PP-1"})
	require.NoError(t, err)
	require.NoError(t, f.txns.Create(context.Background(), txn))
	return txn
}

func verifiedPayment(t *testing.T, ppID string, invoiceID uint, amount string) *paymentgateway.VerifiedPayment {
	t.Helper()
	v, err := paymentgateway.NewVerifiedPayment(paymentgateway.VerifiedPaymentParams{
		PPID:          ppID,
		Status:        paymentgateway.StatusCompleted,
		TransactionID: "T1",
		Amount:        decimal.RequireFromString(amount),
		Currency:      "BDT",
		PaymentMethod: "bkash",
		InvoiceID:     invoiceID,
		Raw:           map[string]interface{}{"pp_id": ppID, "status": "completed"},
	})
	require.NoError(t, err)
	return v
}
