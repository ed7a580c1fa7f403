package piprapay

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/piprapay/ppgateway/internal/application/payment/paymentgateway"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
	"github.com/piprapay/ppgateway/internal/shared/utils"
)

// Name identifies the gateway on transactions and receipts.
const Name = "piprapay"

// Sender is the transport the gateway talks through.
type Sender interface {
	Send(ctx context.Context, path string, payload, out interface{}) error
}

// Gateway implements paymentgateway.PaymentGateway for PipraPay.
type Gateway struct {
	client Sender
	logger logger.Interface
}

var _ paymentgateway.PaymentGateway = (*Gateway)(nil)

func NewGateway(client Sender, log logger.Interface) *Gateway {
	return &Gateway{
		client: client,
		logger: log,
	}
}

func (g *Gateway) CreateCharge(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
	payload := createChargeRequest{
		FullName:    req.FullName,
		EmailMobile: req.EmailMobile,
		Amount:      json.Number(req.Amount.StringFixed(2)),
		Currency:    req.Currency,
		Metadata:    chargeMetadata{InvoiceID: req.InvoiceID},
		RedirectURL: req.RedirectURL,
		ReturnType:  string(req.ReturnType),
		CancelURL:   req.CancelURL,
		WebhookURL:  req.WebhookURL,
	}

	var resp createChargeResponse
	if err := g.client.Send(ctx, pathCreateCharge, payload, &resp); err != nil {
		return nil, err
	}

	out := &paymentgateway.ChargeResponse{
		OK:      resp.ok(),
		Message: resp.Message.String(),
	}
	if out.OK {
		out.RedirectURL = resp.PPURL.String()
	}

	g.logger.Debugw("create charge answered",
		"invoice_id", req.InvoiceID,
		"email", utils.MaskEmail(req.EmailMobile),
		"ok", out.OK,
	)

	return out, nil
}

func (g *Gateway) VerifyPayment(ctx context.Context, ppID string) (*paymentgateway.VerifiedPayment, error) {
	var resp verifyPaymentResponse
	if err := g.client.Send(ctx, pathVerifyPayments, verifyPaymentRequest{PPID: ppID}, &resp); err != nil {
		return nil, err
	}

	status := resp.status()
	if status != paymentgateway.StatusCompleted {
		g.logger.Infow("payment not completed",
			"pp_id", ppID,
			"status", status,
			"message", resp.Message.String(),
		)
		return nil, errors.NewPaymentNotCompletedError(resp.Message.String(), "status: "+status)
	}

	amount, err := decimal.NewFromString(resp.Amount.String())
	if err != nil {
		return nil, errors.NewProtocolError("verified payment has an invalid amount", resp.Amount.String()).WithCause(err)
	}

	invoiceID, err := resp.Metadata.InvoiceID.uint()
	if err != nil {
		return nil, errors.NewProtocolError("verified payment has no usable invoice id", err.Error()).WithCause(err)
	}

	verified, err := paymentgateway.NewVerifiedPayment(paymentgateway.VerifiedPaymentParams{
		PPID:          ppID,
		Status:        status,
		TransactionID: resp.TransactionID.String(),
		Amount:        amount,
		Currency:      resp.Currency.String(),
		PaymentMethod: resp.PaymentMethod.String(),
		InvoiceID:     invoiceID,
		Raw:           resp.raw,
	})
	if err != nil {
		return nil, errors.NewProtocolError("verified payment is malformed", err.Error()).WithCause(err)
	}

	return verified, nil
}
