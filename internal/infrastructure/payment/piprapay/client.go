// Package piprapay talks to the PipraPay hosted-payment API.
package piprapay

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/piprapay/ppgateway/internal/infrastructure/metrics"
	"github.com/piprapay/ppgateway/internal/shared/config"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
	"github.com/piprapay/ppgateway/internal/shared/utils/logutil"
)

const (
	// APIKeyHeader authenticates every call to the provider.
	APIKeyHeader = "mh-piprapay-api-key"

	DefaultTimeout = 30 * time.Second

	pathCreateCharge   = "/api/create-charge"
	pathVerifyPayments = "/api/verify-payments"

	snippetLen = 128
)

// Client sends JSON requests to the provider. It never retries; an
// optional circuit breaker short-circuits calls while the provider is down.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  logger.Interface
}

// NewClient validates the settings it needs and builds a client.
func NewClient(cfg config.GatewayConfig, log logger.Interface) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.NewConfigurationError("payment gateway is not configured", "gateway.api_key is required")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, errors.NewConfigurationError("payment gateway is not configured", "gateway.api_url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("accept", "application/json").
		SetHeader("content-type", "application/json").
		SetHeader(APIKeyHeader, cfg.APIKey)

	c := &Client{
		http:   httpClient,
		logger: log,
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, log)
	}

	return c, nil
}

// Send POSTs payload to path and decodes the JSON answer into out. Network
// failures, timeouts and an open breaker are TransportErrors; a body that is
// not valid JSON is a ProtocolError. On error out must be discarded.
func (c *Client) Send(ctx context.Context, path string, payload, out interface{}) error {
	start := time.Now()

	body, err := c.post(ctx, path, payload)
	if err == nil {
		err = decode(body, out)
	}

	metrics.ProviderRequestDuration.WithLabelValues(path, outcomeLabel(err)).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	if c.breaker == nil {
		return c.do(ctx, path, payload)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, path, payload)
	})
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warnw("provider call short-circuited", "path", path, "error", err)
		return nil, errors.NewTransportError("payment provider unavailable", err.Error()).WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

func (c *Client) do(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(path)
	if err != nil {
		c.logger.Errorw("provider request failed", "path", path, "error", err)
		return nil, errors.NewTransportError("payment provider request failed", err.Error()).WithCause(err)
	}

	if resp.IsError() {
		// the body still carries the provider's verdict
		c.logger.Warnw("provider answered with error status",
			"path", path,
			"status", resp.StatusCode(),
		)
	}

	return resp.Body(), nil
}

func decode(body []byte, out interface{}) error {
	if !json.Valid(body) {
		return errors.NewProtocolError("Invalid JSON response from API", snippet(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewProtocolError("Invalid JSON response from API", err.Error()).WithCause(err)
	}
	return nil
}

func snippet(body []byte) string {
	if len(body) == 0 {
		return "empty body"
	}
	return logutil.TruncateForLog(string(body), snippetLen)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.IsTransportError(err):
		return "transport_error"
	case errors.IsProtocolError(err):
		return "protocol_error"
	default:
		return "error"
	}
}
