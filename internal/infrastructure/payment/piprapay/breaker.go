package piprapay

import (
	"github.com/sony/gobreaker"

	"github.com/piprapay/ppgateway/internal/infrastructure/metrics"
	"github.com/piprapay/ppgateway/internal/shared/config"
	"github.com/piprapay/ppgateway/internal/shared/errors"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

const breakerName = "piprapay"

// newBreaker builds the provider circuit breaker. Only transport failures
// count against the provider; a well-formed refusal is a healthy answer.
func newBreaker(cfg config.BreakerConfig, log logger.Interface) *gobreaker.CircuitBreaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.6
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.IsTransportError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			log.Warnw("circuit breaker state changed",
				"circuit", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(stateValue(cb.State()))
	return cb
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
