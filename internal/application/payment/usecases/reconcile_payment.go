package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	billingapp "github.com/piprapay/ppgateway/internal/application/billing"
	"github.com/piprapay/ppgateway/internal/application/payment/paymentgateway"
	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/domain/payment"
	"github.com/piprapay/ppgateway/internal/shared/db"
	appErrors "github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// Reconciliation step names, in execution order.
const (
	StepResolveInvoice      = "resolve_invoice"
	StepResolveTransaction  = "resolve_transaction"
	StepClaimPayment        = "claim_payment"
	StepCompleteTransaction = "complete_transaction"
	StepCreditFunds         = "credit_funds"
	StepSettleInvoices      = "settle_invoices"
)

// errAlreadyApplied stops the step chain when the payment was applied by an
// earlier delivery. It never leaves this file.
var errAlreadyApplied = errors.New("payment already applied")

// ReconcileResult describes what one Apply call did.
type ReconcileResult struct {
	TransactionID uint
	InvoiceID     uint
	PPID          string
	// Duplicate is true when the payment had already been applied and
	// nothing was changed.
	Duplicate      bool
	CreditedAmount decimal.Decimal
	// SettledInvoiceIDs lists every invoice this call marked paid.
	SettledInvoiceIDs []uint
}

type reconcileStep struct {
	name string
	run  func(ctx context.Context, s *reconcileState) error
}

type reconcileState struct {
	transactionID uint
	payment       *paymentgateway.VerifiedPayment

	invoice *billing.Invoice
	txn     *billing.Transaction
	client  *billing.Client
	result  *ReconcileResult
}

// ReconcilePaymentUseCase applies a verified payment to the billing records
// exactly once per pp_id.
type ReconcilePaymentUseCase struct {
	invoiceRepo billing.InvoiceRepository
	txnRepo     billing.TransactionRepository
	clientRepo  billing.ClientRepository
	receiptRepo payment.ReceiptRepository
	funds       *billingapp.FundsService
	txRunner    db.Runner
	gatewayName string
	logger      logger.Interface

	lookups []reconcileStep
	unit    []reconcileStep
}

func NewReconcilePaymentUseCase(
	invoiceRepo billing.InvoiceRepository,
	txnRepo billing.TransactionRepository,
	clientRepo billing.ClientRepository,
	receiptRepo payment.ReceiptRepository,
	funds *billingapp.FundsService,
	txRunner db.Runner,
	gatewayName string,
	logger logger.Interface,
) *ReconcilePaymentUseCase {
	uc := &ReconcilePaymentUseCase{
		invoiceRepo: invoiceRepo,
		txnRepo:     txnRepo,
		clientRepo:  clientRepo,
		receiptRepo: receiptRepo,
		funds:       funds,
		txRunner:    txRunner,
		gatewayName: gatewayName,
		logger:      logger,
	}

	uc.lookups = []reconcileStep{
		{name: StepResolveInvoice, run: uc.resolveInvoice},
		{name: StepResolveTransaction, run: uc.resolveTransaction},
	}
	uc.unit = []reconcileStep{
		{name: StepClaimPayment, run: uc.claimPayment},
		{name: StepCompleteTransaction, run: uc.completeTransaction},
		{name: StepCreditFunds, run: uc.creditFunds},
		{name: StepSettleInvoices, run: uc.settleInvoices},
	}

	return uc
}

// Apply runs the reconciliation steps for transactionID. Lookups run first
// and change nothing; the remaining steps commit together or not at all.
func (uc *ReconcilePaymentUseCase) Apply(ctx context.Context, transactionID uint, verified *paymentgateway.VerifiedPayment) (*ReconcileResult, error) {
	if verified == nil {
		return nil, fmt.Errorf("verified payment is required")
	}

	log := logger.FromContext(ctx, uc.logger)
	s := &reconcileState{
		transactionID: transactionID,
		payment:       verified,
		result: &ReconcileResult{
			TransactionID:  transactionID,
			InvoiceID:      verified.InvoiceID(),
			PPID:           verified.PPID(),
			CreditedAmount: decimal.Zero,
		},
	}

	err := uc.runSteps(ctx, s, uc.lookups)
	if err == nil {
		err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
			return uc.runSteps(txCtx, s, uc.unit)
		})
	}
	if errors.Is(err, errAlreadyApplied) {
		log.Infow("payment already applied, skipping",
			"pp_id", verified.PPID(),
			"transaction_id", transactionID,
		)
		return &ReconcileResult{
			TransactionID:  transactionID,
			InvoiceID:      verified.InvoiceID(),
			PPID:           verified.PPID(),
			Duplicate:      true,
			CreditedAmount: decimal.Zero,
		}, nil
	}
	if err != nil {
		log.Errorw("reconciliation rolled back",
			"pp_id", verified.PPID(),
			"transaction_id", transactionID,
			"error", err,
		)
		return nil, err
	}

	log.Infow("payment reconciled",
		"pp_id", verified.PPID(),
		"transaction_id", transactionID,
		"invoice_id", verified.InvoiceID(),
		"credited", s.result.CreditedAmount.StringFixed(2),
		"settled_invoices", s.result.SettledInvoiceIDs,
	)

	return s.result, nil
}

func (uc *ReconcilePaymentUseCase) runSteps(ctx context.Context, s *reconcileState, steps []reconcileStep) error {
	for _, step := range steps {
		if err := step.run(ctx, s); err != nil {
			if errors.Is(err, errAlreadyApplied) {
				return err
			}
			uc.logger.Warnw("reconciliation step failed",
				"step", step.name,
				"pp_id", s.payment.PPID(),
				"error", err,
			)
			return err
		}
	}
	return nil
}

func (uc *ReconcilePaymentUseCase) resolveInvoice(ctx context.Context, s *reconcileState) error {
	invoice, err := uc.invoiceRepo.GetByID(ctx, s.payment.InvoiceID())
	if err != nil {
		return err
	}
	s.invoice = invoice
	return nil
}

func (uc *ReconcilePaymentUseCase) resolveTransaction(ctx context.Context, s *reconcileState) error {
	txn, err := uc.txnRepo.GetByID(ctx, s.transactionID)
	if err != nil {
		return err
	}
	s.txn = txn
	return nil
}

func (uc *ReconcilePaymentUseCase) claimPayment(ctx context.Context, s *reconcileState) error {
	receipt, err := payment.NewReceipt(payment.ReceiptParams{
		PPID:          s.payment.PPID(),
		Gateway:       uc.gatewayName,
		TransactionID: s.transactionID,
		InvoiceID:     s.payment.InvoiceID(),
		ProviderTxnID: s.payment.TransactionID(),
		Amount:        s.payment.Amount(),
		Currency:      s.payment.Currency(),
		PaymentMethod: s.payment.PaymentMethod(),
		Verification:  s.payment.Raw(),
	})
	if err != nil {
		return fmt.Errorf("failed to build payment receipt: %w", err)
	}

	claimed, err := uc.receiptRepo.Claim(ctx, receipt)
	if err != nil {
		return err
	}
	if !claimed {
		return errAlreadyApplied
	}
	return nil
}

func (uc *ReconcilePaymentUseCase) completeTransaction(ctx context.Context, s *reconcileState) error {
	err := s.txn.Complete(billing.Completion{
		InvoiceID:   s.invoice.ID(),
		TxnStatus:   s.payment.Status(),
		TxnID:       s.payment.TransactionID(),
		Amount:      s.payment.Amount(),
		Currency:    uc.paymentCurrency(s),
		PaymentType: s.payment.PaymentMethod(),
	})
	if errors.Is(err, billing.ErrTransactionAlreadyComplete) {
		return transactionTaken(s)
	}
	if err != nil {
		return err
	}

	updated, err := uc.txnRepo.CompleteIfPending(ctx, s.txn)
	if err != nil {
		return err
	}
	if !updated {
		return transactionTaken(s)
	}
	return nil
}

// transactionTaken reports a transaction already completed by a different
// payment. The claim for this pp_id was new, so it is not a redelivery and
// must not be acknowledged; the error rolls the claim back.
func transactionTaken(s *reconcileState) error {
	return appErrors.NewConflictError(
		"transaction already completed by another payment",
		fmt.Sprintf("transaction %d, pp_id %s", s.transactionID, s.payment.PPID()),
	)
}

func (uc *ReconcilePaymentUseCase) creditFunds(ctx context.Context, s *reconcileState) error {
	client, err := uc.clientRepo.GetByID(ctx, s.invoice.ClientID())
	if err != nil {
		return err
	}
	s.client = client

	if cur := uc.paymentCurrency(s); cur != client.Currency() {
		uc.logger.Warnw("payment currency differs from client currency",
			"pp_id", s.payment.PPID(),
			"payment_currency", cur.String(),
			"client_currency", client.Currency().String(),
		)
	}

	err = uc.funds.AddFunds(ctx, client, billingapp.Credit{
		Amount:      s.payment.Amount(),
		Currency:    uc.paymentCurrency(s),
		Description: s.payment.Description(),
		RelID:       s.transactionID,
	})
	if err != nil {
		return err
	}

	s.result.CreditedAmount = s.payment.Amount()
	return nil
}

func (uc *ReconcilePaymentUseCase) settleInvoices(ctx context.Context, s *reconcileState) error {
	paid, err := uc.funds.PayInvoiceWithCredits(ctx, s.client, s.invoice)
	if err != nil {
		return err
	}
	if paid {
		s.result.SettledInvoiceIDs = append(s.result.SettledInvoiceIDs, s.invoice.ID())
	}

	others, err := uc.funds.BatchPayWithCredits(ctx, s.client)
	if err != nil {
		return err
	}
	s.result.SettledInvoiceIDs = append(s.result.SettledInvoiceIDs, others...)
	return nil
}

// paymentCurrency falls back to the invoice currency when the provider
// reported none or an unknown code.
func (uc *ReconcilePaymentUseCase) paymentCurrency(s *reconcileState) vo.Currency {
	return vo.CurrencyOrDefault(s.payment.Currency(), s.invoice.Currency())
}
