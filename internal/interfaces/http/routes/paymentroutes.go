package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/piprapay/ppgateway/internal/interfaces/http/handlers"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
}

// SetupPaymentRoutes configures the payer-facing pages, the charge API and
// the provider notification endpoint.
func SetupPaymentRoutes(engine *gin.Engine, cfg *PaymentRouteConfig) {
	h := cfg.PaymentHandler

	invoices := engine.Group("/invoice")
	{
		invoices.GET("/:id", h.InvoiceStatus)
		invoices.GET("/:id/pay", h.PaymentPage)
	}

	api := engine.Group("/api")
	{
		api.GET("/gateway", h.GetGateway)
		api.POST("/invoices/:id/charge", h.CreateCharge)
	}

	// the provider may deliver by POST body or by GET query string
	ipn := api.Group("/ipn/piprapay")
	{
		ipn.POST("", h.HandleNotification)
		ipn.GET("", h.HandleNotification)
		ipn.POST("/:transaction_id", h.HandleNotification)
		ipn.GET("/:transaction_id", h.HandleNotification)
	}
}
