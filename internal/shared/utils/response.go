package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piprapay/ppgateway/internal/shared/errors"
)

// RequestIDContextKey is the gin context key holding the request ID.
const RequestIDContextKey = "request_id"

// APIResponse is the envelope of every JSON answer. Error answers echo the
// request ID so a failed notification can be matched to the server log.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    "error",
			Message: message,
		},
		RequestID: c.GetString(RequestIDContextKey),
	})
}

// ErrorResponseWithError sends an error response based on error type.
// Errors that are not AppErrors are reported as a generic 500 so internal
// details never reach the caller.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	errorInfo := ErrorInfo{
		Type:    string(errors.ErrorTypeInternal),
		Message: "Internal server error occurred",
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		statusCode = appErr.Code
		errorInfo = ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	c.JSON(statusCode, APIResponse{
		Success:   false,
		Error:     &errorInfo,
		RequestID: c.GetString(RequestIDContextKey),
	})
}
