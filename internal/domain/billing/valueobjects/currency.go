package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// DefaultCurrency is used when neither the invoice nor the gateway config
// names one.
const DefaultCurrency Currency = "BDT"

// Currency is an upper-case ISO 4217 code.
type Currency string

// ParseCurrency normalises and validates an ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return Currency(unit.String()), nil
}

// CurrencyOrDefault returns code parsed, falling back to def when code is
// empty or not a known ISO code.
func CurrencyOrDefault(code string, def Currency) Currency {
	if c, err := ParseCurrency(code); err == nil {
		return c
	}
	return def
}

func (c Currency) IsZero() bool {
	return c == ""
}

func (c Currency) String() string {
	return string(c)
}
