package usecases

import vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"

// GatewayInfo describes the gateway to the billing platform's admin surface.
type GatewayInfo struct {
	Name                    string `json:"name"`
	Description             string `json:"description"`
	SupportsOneTimePayments bool   `json:"supports_one_time_payments"`
	SupportsSubscriptions   bool   `json:"supports_subscriptions"`
	Currency                string `json:"currency"`
}

func NewGatewayInfo(name string, currency vo.Currency) GatewayInfo {
	if currency.IsZero() {
		currency = vo.DefaultCurrency
	}
	return GatewayInfo{
		Name:                    name,
		Description:             "Accept payments via piprapay",
		SupportsOneTimePayments: true,
		SupportsSubscriptions:   false,
		Currency:                currency.String(),
	}
}
