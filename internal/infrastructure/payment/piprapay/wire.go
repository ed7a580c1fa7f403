package piprapay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type createChargeRequest struct {
	FullName    string         `json:"full_name"`
	EmailMobile string         `json:"email_mobile"`
	Amount      json.Number    `json:"amount"`
	Currency    string         `json:"currency"`
	Metadata    chargeMetadata `json:"metadata"`
	RedirectURL string         `json:"redirect_url"`
	ReturnType  string         `json:"return_type"`
	CancelURL   string         `json:"cancel_url"`
	WebhookURL  string         `json:"webhook_url"`
}

type chargeMetadata struct {
	InvoiceID uint `json:"invoiceid"`
}

// createChargeResponse keeps status untyped: only a JSON true counts.
type createChargeResponse struct {
	Status  interface{} `json:"status"`
	PPURL   looseString `json:"pp_url"`
	Message looseString `json:"message"`
}

func (r *createChargeResponse) ok() bool {
	b, isBool := r.Status.(bool)
	return isBool && b
}

type verifyPaymentRequest struct {
	PPID string `json:"pp_id"`
}

type verifyPaymentResponse struct {
	Status        interface{}    `json:"status"`
	TransactionID looseString    `json:"transaction_id"`
	Amount        looseString    `json:"amount"`
	Currency      looseString    `json:"currency"`
	PaymentMethod looseString    `json:"payment_method"`
	Metadata      verifyMetadata `json:"metadata"`
	Message       looseString    `json:"message"`

	raw map[string]interface{}
}

type verifyMetadata struct {
	InvoiceID looseString `json:"invoiceid"`
}

// UnmarshalJSON also keeps the whole answer for the audit record.
func (r *verifyPaymentResponse) UnmarshalJSON(data []byte) error {
	type plain verifyPaymentResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	raw := make(map[string]interface{})
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*r = verifyPaymentResponse(p)
	r.raw = raw
	return nil
}

func (r *verifyPaymentResponse) status() string {
	s, _ := r.Status.(string)
	return s
}

// metadata may be absent or not an object on non-completed answers
func (m *verifyMetadata) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '{' {
		*m = verifyMetadata{}
		return nil
	}
	type plain verifyMetadata
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = verifyMetadata(p)
	return nil
}

// looseString accepts a JSON string, number, bool or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("expected scalar, got %s", data)
	default:
		*s = looseString(data)
	}
	return nil
}

func (s looseString) String() string {
	return strings.TrimSpace(string(s))
}

func (s looseString) uint() (uint, error) {
	v := s.String()
	if v == "" {
		return 0, fmt.Errorf("value is empty")
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid unsigned integer %q", v)
	}
	return uint(n), nil
}
