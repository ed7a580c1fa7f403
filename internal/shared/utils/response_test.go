package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piprapay/ppgateway/internal/shared/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/ipn/piprapay", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestErrorResponseWithError_AppError(t *testing.T) {
	c, w := newContext()
	c.Set(RequestIDContextKey, "req-9")

	ErrorResponseWithError(c, errors.NewPaymentNotCompletedError("Payment pending"))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "req-9", resp.RequestID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "payment_not_completed", resp.Error.Type)
	assert.Equal(t, "Payment pending", resp.Error.Message)
}

func TestErrorResponseWithError_HidesInternalErrors(t *testing.T) {
	c, w := newContext()

	ErrorResponseWithError(c, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Internal server error occurred", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
	assert.Empty(t, resp.RequestID)
}

func TestSuccessResponse(t *testing.T) {
	c, w := newContext()

	SuccessResponse(c, http.StatusOK, "Payment applied", map[string]any{"transaction_id": 7})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Payment applied", resp.Message)
	assert.Nil(t, resp.Error)
}
