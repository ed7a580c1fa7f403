// Package errors provides application-level error types and utilities.
// Besides the generic validation / not found / internal kinds it defines the
// gateway error taxonomy used along the charge and reconciliation paths.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"
	ErrorTypeUnauthorized ErrorType = "unauthorized"

	ErrorTypeConfiguration       ErrorType = "configuration_error"
	ErrorTypeTransport           ErrorType = "transport_error"
	ErrorTypeProtocol            ErrorType = "protocol_error"
	ErrorTypeChargeCreation      ErrorType = "charge_creation_error"
	ErrorTypeInvalidNotification ErrorType = "invalid_notification"
	ErrorTypePaymentNotCompleted ErrorType = "payment_not_completed"
	ErrorTypeInProgress          ErrorType = "in_progress"
	ErrorTypeInsufficientCredit  ErrorType = "insufficient_credit"
)

// UnknownProviderError is the message used when the provider gives none.
const UnknownProviderError = "Unknown error"

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error without changing the message.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error. It is the RecordNotFound
// kind of the reconciliation path.
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// NewConfigurationError reports a missing or malformed setting.
func NewConfigurationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConfiguration, http.StatusInternalServerError, message, details)
}

// NewTransportError reports a network, timeout or unreadable-response failure
// while talking to the provider.
func NewTransportError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTransport, http.StatusBadGateway, message, details)
}

// NewProtocolError reports a provider response that is not valid JSON.
func NewProtocolError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeProtocol, http.StatusBadGateway, message, details)
}

// NewChargeCreationError carries the provider's message, or the generic
// fallback when the provider sent none.
func NewChargeCreationError(providerMessage string) *AppError {
	return newAppError(ErrorTypeChargeCreation, http.StatusBadGateway, providerMessageOrFallback(providerMessage), nil)
}

// NewInvalidNotificationError reports an inbound notification without usable data.
func NewInvalidNotificationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidNotification, http.StatusBadRequest, message, details)
}

// NewPaymentNotCompletedError carries the provider's message, or the generic
// fallback when the provider sent none.
func NewPaymentNotCompletedError(providerMessage string, details ...string) *AppError {
	return newAppError(ErrorTypePaymentNotCompleted, http.StatusPaymentRequired, providerMessageOrFallback(providerMessage), details)
}

// NewInProgressError reports that another request holds the work for the
// same payment.
func NewInProgressError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInProgress, http.StatusConflict, message, details)
}

// NewInsufficientCreditError reports a debit larger than the client balance.
func NewInsufficientCreditError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInsufficientCredit, http.StatusUnprocessableEntity, message, details)
}

func providerMessageOrFallback(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return UnknownProviderError
	}
	return msg
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

func IsConfigurationError(err error) bool {
	return IsType(err, ErrorTypeConfiguration)
}

func IsTransportError(err error) bool {
	return IsType(err, ErrorTypeTransport)
}

func IsProtocolError(err error) bool {
	return IsType(err, ErrorTypeProtocol)
}

func IsChargeCreationError(err error) bool {
	return IsType(err, ErrorTypeChargeCreation)
}

func IsInvalidNotificationError(err error) bool {
	return IsType(err, ErrorTypeInvalidNotification)
}

func IsPaymentNotCompletedError(err error) bool {
	return IsType(err, ErrorTypePaymentNotCompleted)
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// SQLite / PostgreSQL unique violation
	if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "unique constraint") {
		return true
	}
	return false
}
