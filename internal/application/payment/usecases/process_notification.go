package usecases

import (
	"context"
	"net/url"

	"github.com/piprapay/ppgateway/internal/application/payment/notification"
	"github.com/piprapay/ppgateway/internal/application/payment/paymentgateway"
	"github.com/piprapay/ppgateway/internal/domain/billing"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// PaymentApplier applies a verified payment to a transaction.
type PaymentApplier interface {
	Apply(ctx context.Context, transactionID uint, verified *paymentgateway.VerifiedPayment) (*ReconcileResult, error)
}

// NotificationGuard serialises work on one pp_id across processes. Acquire
// reports ok=false when another holder is active.
type NotificationGuard interface {
	Acquire(ctx context.Context, ppID string) (release func(), ok bool, err error)
}

type noopGuard struct{}

func (noopGuard) Acquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

type ProcessNotificationCommand struct {
	// TransactionID selects an existing transaction to (re)process. Zero
	// registers a new one from the notification.
	TransactionID uint
	Body          []byte
	Query         url.Values
}

type ProcessNotificationResult struct {
	TransactionID uint
	PPID          string
	Reconcile     *ReconcileResult
}

// ProcessNotificationUseCase handles one inbound provider notification: it
// takes only the pp_id from it, asks the provider for the authoritative
// state and applies a completed payment.
type ProcessNotificationUseCase struct {
	txnRepo     billing.TransactionRepository
	gateway     paymentgateway.PaymentGateway
	applier     PaymentApplier
	guard       NotificationGuard
	gatewayName string
	logger      logger.Interface
}

func NewProcessNotificationUseCase(
	txnRepo billing.TransactionRepository,
	gateway paymentgateway.PaymentGateway,
	applier PaymentApplier,
	guard NotificationGuard,
	gatewayName string,
	logger logger.Interface,
) *ProcessNotificationUseCase {
	if guard == nil {
		guard = noopGuard{}
	}
	return &ProcessNotificationUseCase{
		txnRepo:     txnRepo,
		gateway:     gateway,
		applier:     applier,
		guard:       guard,
		gatewayName: gatewayName,
		logger:      logger,
	}
}

func (uc *ProcessNotificationUseCase) Execute(ctx context.Context, cmd ProcessNotificationCommand) (*ProcessNotificationResult, error) {
	log := logger.FromContext(ctx, uc.logger)
	n, extractErr := notification.Extract(cmd.Body, cmd.Query)

	txnID := cmd.TransactionID
	if txnID == 0 {
		id, err := uc.registerTransaction(ctx, log, n)
		if err != nil {
			return nil, err
		}
		txnID = id
	} else if _, err := uc.txnRepo.GetByID(ctx, txnID); err != nil {
		return nil, err
	}

	result := &ProcessNotificationResult{TransactionID: txnID}
	log = log.With("transaction_id", txnID)

	if extractErr != nil {
		return result, uc.fail(ctx, log, txnID, errors.NewInvalidNotificationError("Invalid IPN request", extractErr.Error()))
	}

	ppID, ok := n.PPID()
	if !ok {
		return result, uc.fail(ctx, log, txnID, errors.NewInvalidNotificationError("Invalid IPN request", "pp_id is missing"))
	}
	result.PPID = ppID
	log = log.With("pp_id", ppID)

	release, acquired, err := uc.guard.Acquire(ctx, ppID)
	if err != nil {
		// the receipt constraint still protects the ledger
		log.Warnw("notification guard unavailable, continuing without it", "error", err)
		release = func() {}
	} else if !acquired {
		log.Infow("notification for pp_id already in progress")
		return result, errors.NewInProgressError("payment is already being processed", ppID)
	}
	defer release()

	verified, err := uc.gateway.VerifyPayment(ctx, ppID)
	if err != nil {
		return result, uc.fail(ctx, log, txnID, err)
	}

	reconciled, err := uc.applier.Apply(ctx, txnID, verified)
	if err != nil {
		return result, uc.fail(ctx, log, txnID, err)
	}
	result.Reconcile = reconciled

	if reconciled.Duplicate {
		// the payment belongs to an earlier transaction; this one is done
		uc.markError(ctx, log, txnID, "duplicate of pp_id "+ppID)
	}

	log.Infow("notification processed", "duplicate", reconciled.Duplicate)

	return result, nil
}

func (uc *ProcessNotificationUseCase) registerTransaction(ctx context.Context, log logger.Interface, n notification.Notification) (uint, error) {
	txn, err := billing.NewReceivedTransaction(uc.gatewayName, n)
	if err != nil {
		return 0, errors.NewInternalError("failed to build transaction", err.Error())
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		log.Errorw("failed to register transaction", "error", err)
		return 0, err
	}

	log.Infow("notification received", "transaction_id", txn.ID())
	return txn.ID(), nil
}

// fail records cause on the transaction and returns it unchanged. Failure to
// record is logged only.
func (uc *ProcessNotificationUseCase) fail(ctx context.Context, log logger.Interface, txnID uint, cause error) error {
	log.Warnw("notification processing failed", "error", cause)
	uc.markError(ctx, log, txnID, cause.Error())
	return cause
}

// markError moves a transaction that is not complete to error with reason.
func (uc *ProcessNotificationUseCase) markError(ctx context.Context, log logger.Interface, txnID uint, reason string) {
	txn, err := uc.txnRepo.GetByID(ctx, txnID)
	if err != nil {
		log.Errorw("failed to load transaction for error marking", "error", err)
		return
	}
	if txn.Status().IsComplete() {
		return
	}

	txn.MarkError(reason)
	if err := uc.txnRepo.UpdateStatus(ctx, txn); err != nil {
		log.Errorw("failed to mark transaction as error", "error", err)
	}
}
