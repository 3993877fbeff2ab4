package response

import (
	"net/http"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HeaderSuperseded marks a list response discarded in favour of a newer request.
const HeaderSuperseded = "X-Superseded"

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Machine-readable error code, e.g., "VALIDATION_FAILED"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Additional error context (only for 4xx errors)
}

// ResultResponse is the tagged outcome of a session operation, rendered by the shell as a toast
type ResultResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	Data    any       `json:"data,omitempty"`
	Meta    *MetaInfo `json:"meta"`
}

// RedirectResponse tells the shell to navigate away, replacing the current history entry
type RedirectResponse struct {
	Error    *ErrorInfo `json:"error"`
	Redirect string     `json:"redirect"`
	Replace  bool       `json:"replace"`
	Meta     *MetaInfo  `json:"meta"`
}

// SupersededResponse answers a list request that a newer one replaced
type SupersededResponse struct {
	Superseded bool      `json:"superseded"`
	Meta       *MetaInfo `json:"meta"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

// NewMeta builds the metadata of the current request.
func NewMeta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.RequestID(c)}
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Data: data,
		Meta: NewMeta(c),
	})
}

// Result returns a tagged session result. Failures are part of the payload, not the status.
func Result(c echo.Context, result entity.Result, data any) error {
	return c.JSON(http.StatusOK, ResultResponse{
		Success: result.Success,
		Error:   result.Error,
		Data:    data,
		Meta:    NewMeta(c),
	})
}

// Superseded answers a list request whose response would be stale.
func Superseded(c echo.Context) error {
	c.Response().Header().Set(HeaderSuperseded, "true")

	return c.JSON(http.StatusOK, SupersededResponse{
		Superseded: true,
		Meta:       NewMeta(c),
	})
}

// RedirectRequired returns a 401 pointing the shell at the login route
func RedirectRequired(c echo.Context, location string) error {
	return c.JSON(http.StatusUnauthorized, RedirectResponse{
		Error: &ErrorInfo{
			Code:    domainerrors.ErrAuthenticationRequired.ErrorCode(),
			Message: domainerrors.ErrAuthenticationRequired.Message(),
		},
		Redirect: location,
		Replace:  true,
		Meta:     NewMeta(c),
	})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	// Details should not be included for 5xx errors or authentication/authorization errors
	if statusCode >= 500 || statusCode == 401 || statusCode == 403 {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: NewMeta(c),
	})
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// BindingError returns a binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// NotFound returns a 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}

// HandleAppError handles application errors, converting domain errors to appropriate HTTP responses
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), nil)
	}

	return errors.WithStack(err)
}
