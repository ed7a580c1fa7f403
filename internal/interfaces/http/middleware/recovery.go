package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/piprapay/ppgateway/internal/shared/logger"
	"github.com/piprapay/ppgateway/internal/shared/utils"
)

// redactedHeaders never reach the log when a panic dumps the request.
var redactedHeaders = map[string]struct{}{
	"Authorization":       {},
	"Cookie":              {},
	"Mh-Piprapay-Api-Key": {},
}

// Recovery turns a handler panic into a 500 envelope and logs it with the
// request's headers, secrets redacted.
func Recovery(base logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log := logger.FromContext(c.Request.Context(), base).With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if isBrokenConnection(recovered) {
			log.Warnw("client went away during request", "error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"headers", safeHeaders(c.Request.Header),
			"error", recovered,
			"stack", string(debug.Stack()),
		)

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
		c.Abort()
	})
}

func safeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		if _, secret := redactedHeaders[http.CanonicalHeaderKey(name)]; secret {
			out[name] = "*"
			continue
		}
		out[name] = h.Get(name)
	}
	return out
}

func isBrokenConnection(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
