package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// Logger writes one access line per request. Provider notifications are
// logged at info so every IPN delivery leaves a trace; other successful
// requests stay at debug.
func Logger(base logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log := logger.FromContext(c.Request.Context(), base)
		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status >= 400:
			log.Warnw("request rejected", args...)
		case isNotificationRoute(c.FullPath()):
			log.Infow("notification handled", args...)
		default:
			log.Debugw("request served", args...)
		}
	}
}

func isNotificationRoute(route string) bool {
	return strings.HasPrefix(route, "/api/ipn/")
}
