package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets browser hardening headers. Inline scripts stay allowed
// for the payment page's auto-submit.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'")

		c.Next()
	}
}
