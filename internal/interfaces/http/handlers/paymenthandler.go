package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piprapay/ppgateway/internal/application/payment/usecases"
	"github.com/piprapay/ppgateway/internal/infrastructure/metrics"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
	"github.com/piprapay/ppgateway/internal/shared/utils"
)

// maxNotificationBody caps how much of an inbound notification is read.
const maxNotificationBody = 1 << 20

type PaymentHandler struct {
	createChargeUC  chargeCreator
	processNotifyUC notificationProcessor
	invoices        invoiceReader
	gatewayInfo     usecases.GatewayInfo
	autoRedirect    bool
	logger          logger.Interface
}

func NewPaymentHandler(
	createChargeUC chargeCreator,
	processNotifyUC notificationProcessor,
	invoices invoiceReader,
	gatewayInfo usecases.GatewayInfo,
	autoRedirect bool,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		createChargeUC:  createChargeUC,
		processNotifyUC: processNotifyUC,
		invoices:        invoices,
		gatewayInfo:     gatewayInfo,
		autoRedirect:    autoRedirect,
		logger:          logger,
	}
}

type CreateChargeResponse struct {
	InvoiceID  uint   `json:"invoice_id"`
	PaymentURL string `json:"payment_url"`
}

type InvoiceStatusResponse struct {
	InvoiceID uint       `json:"invoice_id"`
	Status    string     `json:"status"`
	Total     string     `json:"total"`
	Currency  string     `json:"currency"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type NotificationResponse struct {
	TransactionID     uint   `json:"transaction_id"`
	PPID              string `json:"pp_id"`
	Duplicate         bool   `json:"duplicate"`
	CreditedAmount    string `json:"credited_amount"`
	SettledInvoiceIDs []uint `json:"settled_invoice_ids"`
}

// GetGateway describes the configured gateway.
// @Summary Get gateway
// @Description Describe the configured payment gateway and its currency
// @Tags payments
// @Produce json
// @Success 200 {object} utils.APIResponse{data=usecases.GatewayInfo}
// @Router /api/gateway [get]
func (h *PaymentHandler) GetGateway(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.gatewayInfo)
}

// CreateCharge starts a hosted payment for an invoice.
// @Summary Create charge
// @Description Create a hosted payment for an unpaid invoice and return the payer URL
// @Tags payments
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} utils.APIResponse{data=CreateChargeResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/invoices/{id}/charge [post]
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	invoiceID, err := utils.ParseIDParam(c, "id", "invoice")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createChargeUC.Execute(c.Request.Context(), usecases.CreateChargeCommand{InvoiceID: invoiceID})
	if err != nil {
		metrics.ChargesTotal.WithLabelValues("failed").Inc()
		h.log(c).Errorw("failed to create charge", "invoice_id", invoiceID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	metrics.ChargesTotal.WithLabelValues("created").Inc()

	utils.SuccessResponse(c, http.StatusOK, "Charge created successfully", CreateChargeResponse{
		InvoiceID:  result.InvoiceID,
		PaymentURL: result.PaymentURL,
	})
}

// PaymentPage renders the form that sends the payer to the hosted page.
// @Summary Payment page
// @Description Render an HTML form that sends the payer to the hosted payment page
// @Tags invoices
// @Produce html
// @Param id path int true "Invoice ID"
// @Success 200 {string} string "HTML form"
// @Failure 404 {string} string "HTML error page"
// @Failure 502 {string} string "HTML error page"
// @Router /invoice/{id}/pay [get]
func (h *PaymentHandler) PaymentPage(c *gin.Context) {
	invoiceID, err := utils.ParseIDParam(c, "id", "invoice")
	if err != nil {
		h.renderError(c, err)
		return
	}

	result, err := h.createChargeUC.Execute(c.Request.Context(), usecases.CreateChargeCommand{InvoiceID: invoiceID})
	if err != nil {
		metrics.ChargesTotal.WithLabelValues("failed").Inc()
		h.log(c).Warnw("payment page could not create charge", "invoice_id", invoiceID, "error", err)
		h.renderError(c, err)
		return
	}
	metrics.ChargesTotal.WithLabelValues("created").Inc()

	var buf bytes.Buffer
	if err := renderPaymentForm(&buf, result.PaymentURL, h.autoRedirect); err != nil {
		h.log(c).Errorw("failed to render payment form", "invoice_id", invoiceID, "error", err)
		h.renderError(c, errors.NewInternalError("failed to render payment form"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// InvoiceStatus is where the provider returns the payer.
// @Summary Invoice status
// @Description Show an invoice's payment status
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} utils.APIResponse{data=InvoiceStatusResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /invoice/{id} [get]
func (h *PaymentHandler) InvoiceStatus(c *gin.Context) {
	invoiceID, err := utils.ParseIDParam(c, "id", "invoice")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	invoice, err := h.invoices.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", InvoiceStatusResponse{
		InvoiceID: invoice.ID(),
		Status:    invoice.Status().String(),
		Total:     invoice.Total().StringFixed(2),
		Currency:  invoice.Currency().String(),
		PaidAt:    invoice.PaidAt(),
	})
}

// HandleNotification receives a provider IPN. With a transaction_id path
// parameter it reprocesses that transaction instead of registering a new one.
// @Summary Payment notification
// @Description Accept a PipraPay IPN as a JSON body or query string, verify it with the provider and apply it
// @Tags notifications
// @Accept json
// @Produce json
// @Param pp_id query string false "PipraPay payment ID when no JSON body is sent"
// @Success 200 {object} utils.APIResponse{data=NotificationResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/ipn/piprapay [post]
// @Router /api/ipn/piprapay [get]
func (h *PaymentHandler) HandleNotification(c *gin.Context) {
	var txnID uint
	if c.Param("transaction_id") != "" {
		id, err := utils.ParseIDParam(c, "transaction_id", "transaction")
		if err != nil {
			h.countNotification(err)
			utils.ErrorResponseWithError(c, err)
			return
		}
		txnID = id
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxNotificationBody))
	if err != nil {
		h.log(c).Warnw("failed to read notification body", "error", err)
		err = errors.NewInvalidNotificationError("Invalid IPN request", "unreadable body")
		h.countNotification(err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.processNotifyUC.Execute(c.Request.Context(), usecases.ProcessNotificationCommand{
		TransactionID: txnID,
		Body:          body,
		Query:         c.Request.URL.Query(),
	})
	h.countNotification(err, result)
	if err != nil {
		args := []interface{}{"error", err}
		if result != nil {
			args = append(args, "transaction_id", result.TransactionID, "pp_id", result.PPID)
		}
		h.log(c).Warnw("notification not applied", args...)
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := NotificationResponse{
		TransactionID:     result.TransactionID,
		PPID:              result.PPID,
		SettledInvoiceIDs: []uint{},
		CreditedAmount:    "0.00",
	}
	message := "Payment applied"
	if r := result.Reconcile; r != nil {
		resp.Duplicate = r.Duplicate
		resp.CreditedAmount = r.CreditedAmount.StringFixed(2)
		if r.SettledInvoiceIDs != nil {
			resp.SettledInvoiceIDs = r.SettledInvoiceIDs
		}
		if r.Duplicate {
			message = "Payment already applied"
		}
	}

	utils.SuccessResponse(c, http.StatusOK, message, resp)
}

func (h *PaymentHandler) log(c *gin.Context) logger.Interface {
	return logger.FromContext(c.Request.Context(), h.logger)
}

func (h *PaymentHandler) countNotification(err error, result ...*usecases.ProcessNotificationResult) {
	metrics.NotificationsTotal.WithLabelValues(notificationOutcome(err, result...)).Inc()
}

func notificationOutcome(err error, result ...*usecases.ProcessNotificationResult) string {
	if err == nil {
		if len(result) > 0 && result[0] != nil && result[0].Reconcile != nil && result[0].Reconcile.Duplicate {
			return "duplicate"
		}
		return "applied"
	}

	appErr := errors.GetAppError(err)
	if appErr == nil {
		return "error"
	}
	switch appErr.Type {
	case errors.ErrorTypeInvalidNotification, errors.ErrorTypeValidation:
		return "invalid"
	case errors.ErrorTypePaymentNotCompleted:
		return "not_completed"
	case errors.ErrorTypeNotFound:
		return "not_found"
	case errors.ErrorTypeInProgress:
		return "in_progress"
	case errors.ErrorTypeConflict:
		return "conflict"
	case errors.ErrorTypeInsufficientCredit:
		return "insufficient_credit"
	case errors.ErrorTypeTransport, errors.ErrorTypeProtocol:
		return "provider_error"
	default:
		return "error"
	}
}

func (h *PaymentHandler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error occurred"
	if appErr := errors.GetAppError(err); appErr != nil {
		status = appErr.Code
		message = appErr.Message
	}

	var buf bytes.Buffer
	if renderErr := renderPaymentError(&buf, message); renderErr != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
