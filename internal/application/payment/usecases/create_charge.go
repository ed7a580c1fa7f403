package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/piprapay/ppgateway/internal/application/payment/paymentgateway"
	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// ChargeSettings are the configured parts of every charge request.
type ChargeSettings struct {
	// BaseURL is the public address of this service; the payer is sent back
	// to {BaseURL}/invoice/{id}.
	BaseURL   string
	Currency  vo.Currency
	CancelURL string
	NotifyURL string
}

type CreateChargeCommand struct {
	InvoiceID uint
}

type CreateChargeResult struct {
	InvoiceID  uint
	PaymentURL string
}

type CreateChargeUseCase struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  billing.ClientRepository
	gateway     paymentgateway.PaymentGateway
	settings    ChargeSettings
	validate    *validator.Validate
	logger      logger.Interface
}

func NewCreateChargeUseCase(
	invoiceRepo billing.InvoiceRepository,
	clientRepo billing.ClientRepository,
	gateway paymentgateway.PaymentGateway,
	settings ChargeSettings,
	logger logger.Interface,
) *CreateChargeUseCase {
	if settings.Currency.IsZero() {
		settings.Currency = vo.DefaultCurrency
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")

	return &CreateChargeUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		gateway:     gateway,
		settings:    settings,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (uc *CreateChargeUseCase) Execute(ctx context.Context, cmd CreateChargeCommand) (*CreateChargeResult, error) {
	uc.logger.Infow("executing create charge use case", "invoice_id", cmd.InvoiceID)

	invoice, err := uc.invoiceRepo.GetByID(ctx, cmd.InvoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.IsPayable() {
		return nil, errors.NewValidationError(
			"invoice is not payable",
			fmt.Sprintf("invoice %d is %s", invoice.ID(), invoice.Status()),
		)
	}

	client, err := uc.clientRepo.GetByID(ctx, invoice.ClientID())
	if err != nil {
		return nil, err
	}

	req := uc.buildChargeRequest(invoice, client)
	if err := uc.validate.Struct(req); err != nil {
		uc.logger.Warnw("charge request failed validation", "invoice_id", invoice.ID(), "error", err)
		return nil, errors.NewValidationError("invalid charge request", err.Error())
	}

	resp, err := uc.gateway.CreateCharge(ctx, req)
	if err != nil {
		uc.logger.Errorw("create charge call failed", "invoice_id", invoice.ID(), "error", err)
		return nil, err
	}

	if !resp.Usable() {
		uc.logger.Warnw("provider refused charge",
			"invoice_id", invoice.ID(),
			"message", resp.Message,
		)
		return nil, errors.NewChargeCreationError(resp.Message)
	}

	uc.logger.Infow("charge created",
		"invoice_id", invoice.ID(),
		"amount", req.Amount.StringFixed(2),
		"currency", req.Currency,
	)

	return &CreateChargeResult{
		InvoiceID:  invoice.ID(),
		PaymentURL: resp.RedirectURL,
	}, nil
}

func (uc *CreateChargeUseCase) buildChargeRequest(invoice *billing.Invoice, client *billing.Client) paymentgateway.ChargeRequest {
	currency := invoice.Currency()
	if currency.IsZero() {
		currency = uc.settings.Currency
	}

	return paymentgateway.ChargeRequest{
		FullName:    client.FullName(),
		EmailMobile: client.Email(),
		Amount:      invoice.Total(),
		Currency:    currency.String(),
		InvoiceID:   invoice.ID(),
		RedirectURL: fmt.Sprintf("%s/invoice/%d", uc.settings.BaseURL, invoice.ID()),
		CancelURL:   uc.settings.CancelURL,
		WebhookURL:  uc.settings.NotifyURL,
		ReturnType:  paymentgateway.ReturnTypeGET,
	}
}
