package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/piprapay/ppgateway/internal/shared/logger"
	"github.com/piprapay/ppgateway/internal/shared/utils"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = utils.RequestIDContextKey
)

// RequestID propagates the caller's X-Request-ID or assigns a new one, and
// puts a logger tagged with it into the request context.
func RequestID(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		ctx := logger.ContextWith(c.Request.Context(), log.With(RequestIDKey, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
