package errors

import (
	"net/http"

	"portal/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Session-related errors
	ErrAuthenticationRequired = NewBaseError(
		http.StatusUnauthorized,
		"AUTHENTICATION_REQUIRED",
		"Please sign in to continue",
		"",
	)

	ErrSessionUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"SESSION_LOADING",
		"Session is still loading",
		"",
	)

	// Tenant-related errors
	ErrTenantNotResolved = NewBaseError(
		http.StatusNotFound,
		"TENANT_NOT_RESOLVED",
		"No portal is configured for this address",
		"",
	)

	ErrNotSupportedByTenant = NewBaseError(
		http.StatusNotFound,
		"NOT_SUPPORTED_BY_TENANT",
		"This operation is not available on this portal",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrInvalidMonth = NewBaseError(
		http.StatusBadRequest,
		"INVALID_MONTH",
		"Month must be formatted as YYYY-MM",
		"",
	)

	// Upstream-related errors
	ErrUpstreamUnavailable = NewBaseError(
		http.StatusBadGateway,
		"UPSTREAM_UNAVAILABLE",
		"The service is unreachable, please try again later",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// UpstreamError carries a failure reported by the upstream REST API, implementing the AppError interface
type UpstreamError struct {
	status  int
	message string
}

// NewUpstreamError creates an error from an upstream status and its server-provided message
func NewUpstreamError(status int, message string) AppError {
	return &UpstreamError{
		status:  status,
		message: message,
	}
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return e.message
}

// HTTPCode passes 4xx statuses through; upstream 5xx becomes a bad gateway
func (e *UpstreamError) HTTPCode() int {
	if e.status >= http.StatusBadRequest && e.status < http.StatusInternalServerError {
		return e.status
	}

	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *UpstreamError) ErrorCode() string {
	return "UPSTREAM_ERROR"
}

// Message returns the server-provided message
func (e *UpstreamError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *UpstreamError) Details() string {
	return http.StatusText(e.status)
}
