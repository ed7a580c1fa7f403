package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine() *gin.Engine {
	log := logger.NewDiscardLogger()
	engine := gin.New()
	engine.Use(RequestID(log), Logger(log), Recovery(log), SecurityHeaders())
	engine.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return engine
}

func TestRequestID(t *testing.T) {
	engine := newEngine()

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	engine := newEngine()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestLogger_UsesRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	engine := gin.New()
	engine.Use(RequestID(log), Logger(log))
	engine.POST("/api/ipn/piprapay", func(c *gin.Context) {
		logger.FromContext(c.Request.Context(), nil).Infow("inside handler")
		c.Status(http.StatusOK)
	})
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/api/ipn/piprapay", nil)
	req.Header.Set(RequestIDHeader, "ipn-1")
	engine.ServeHTTP(httptest.NewRecorder(), req)
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "request_id=ipn-1"))
	assert.Contains(t, out, "notification handled")
	assert.Contains(t, out, "route=/api/ipn/piprapay")
	assert.NotContains(t, out, "request served")
}

func TestSafeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("mh-piprapay-api-key", "live-key")
	h.Set("Content-Type", "application/json")

	got := safeHeaders(h)

	assert.Equal(t, "*", got["Authorization"])
	assert.Equal(t, "*", got["Mh-Piprapay-Api-Key"])
	assert.Equal(t, "application/json", got["Content-Type"])
}

func TestIsBrokenConnection(t *testing.T) {
	assert.True(t, isBrokenConnection(fmt.Errorf("write: %w", syscall.EPIPE)))
	assert.False(t, isBrokenConnection("boom"))
	assert.False(t, isBrokenConnection(errors.New("other")))
}
