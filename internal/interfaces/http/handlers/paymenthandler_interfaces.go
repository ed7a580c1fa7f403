package handlers

import (
	"context"

	"github.com/piprapay/ppgateway/internal/application/payment/usecases"
	"github.com/piprapay/ppgateway/internal/domain/billing"
)

// Use case interfaces for PaymentHandler - enables unit testing with mocks.

type chargeCreator interface {
	Execute(ctx context.Context, cmd usecases.CreateChargeCommand) (*usecases.CreateChargeResult, error)
}

type notificationProcessor interface {
	Execute(ctx context.Context, cmd usecases.ProcessNotificationCommand) (*usecases.ProcessNotificationResult, error)
}

type invoiceReader interface {
	GetByID(ctx context.Context, id uint) (*billing.Invoice, error)
}
