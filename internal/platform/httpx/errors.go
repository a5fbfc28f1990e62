// Package httpx defines the service error taxonomy and the central mapping
// from service errors to HTTP responses. Handlers and services return typed
// errors; the echo HTTPErrorHandler translates them to a JSON envelope of the
// form {"success":false,"message":"..."} exactly once at the API boundary.
package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind classifies a service error for HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindInvalidState
	KindPermission
	KindInsufficientStock
	KindUnauthenticated
	KindInternal
)

// Error is a typed service error carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed input: a missing field, an unknown enum value,
// a non-positive quantity.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a referenced id that does not exist.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidState reports a lifecycle transition not allowed from the current status.
func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Permission reports an actor not authorized for a mutation.
func Permission(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports a fulfillment that exceeds available inventory.
func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports a missing or invalid credential.
func Unauthenticated(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error. The wrapped cause is logged, never
// returned to the client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindInsufficientStock:
		return http.StatusConflict
	case KindPermission:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON envelope returned for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorHandler returns an echo HTTPErrorHandler that maps typed errors and
// echo.HTTPErrors to the envelope. Internal errors are logged with the
// request id; their cause is not leaked.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var svcErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &svcErr):
			status = statusFor(svcErr.Kind)
			message = svcErr.Message
			if svcErr.Kind == KindInternal {
				rid, _ := c.Get("request_id").(string)
				logger.Error().Err(svcErr.Err).
					Str("request_id", rid).
					Str("path", c.Request().URL.Path).
					Msg("internal error")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		default:
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, ErrorResponse{Success: false, Message: message})
	}
}
