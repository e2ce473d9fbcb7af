package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"unicode/utf8"
)

// ErrorType classifies provider failures.
type ErrorType string

const (
	ErrorTypeClientError     ErrorType = "CLIENT_ERROR"
	ErrorTypeServerError     ErrorType = "SERVER_ERROR"
	ErrorTypeAuthError       ErrorType = "AUTH_ERROR"
	ErrorTypeRateLimit       ErrorType = "RATE_LIMIT"
	ErrorTypeTimeout         ErrorType = "TIMEOUT"
	ErrorTypeInvalidResponse ErrorType = "INVALID_RESPONSE"
	ErrorTypeCircuitOpen     ErrorType = "CIRCUIT_OPEN"
)

const maxErrorBodyLength = 200

// Error is the typed failure every provider call resolves to.
type Error struct {
	Type       ErrorType
	ProviderID string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s (HTTP %d): %s", e.ProviderID, e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.ProviderID, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.ProviderID, e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(errType ErrorType, providerID, message string, status int, cause error, overloaded ...int) *Error {
	return &Error{
		Type:       errType,
		ProviderID: providerID,
		Message:    message,
		StatusCode: status,
		Retryable:  IsRetryable(errType, status, overloaded...),
		Cause:      cause,
	}
}

// IsRetryable derives retryability from the error type and HTTP status.
// When a status is known it decides alone: 429, any 5xx, or one of the
// vendor's overloaded codes.
func IsRetryable(errType ErrorType, status int, overloaded ...int) bool {
	if status > 0 {
		return status == http.StatusTooManyRequests ||
			(status >= 500 && status <= 599) ||
			slices.Contains(overloaded, status)
	}

	switch errType {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

// ClassifyStatus maps a non-2xx HTTP status to an error type.
func ClassifyStatus(status int, overloaded ...int) ErrorType {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorTypeAuthError
	case status == http.StatusRequestTimeout:
		return ErrorTypeTimeout
	case slices.Contains(overloaded, status), status >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeClientError
	}
}

// NewStatusError builds an error for a non-2xx provider reply.
func NewStatusError(providerID string, status int, body string, overloaded ...int) *Error {
	return newError(
		ClassifyStatus(status, overloaded...),
		providerID,
		truncate(body, maxErrorBodyLength),
		status,
		nil,
		overloaded...,
	)
}

// NewInvalidResponseError builds an error for a malformed success body.
func NewInvalidResponseError(providerID, message string, cause error) *Error {
	return newError(ErrorTypeInvalidResponse, providerID, message, 0, cause)
}

// NewTimeoutError builds an error for an expired per-call deadline.
func NewTimeoutError(providerID string, cause error) *Error {
	return newError(ErrorTypeTimeout, providerID, "request deadline exceeded", 0, cause)
}

// NewTransportError builds an error for a request that never produced a status.
func NewTransportError(providerID string, cause error) *Error {
	return newError(ErrorTypeServerError, providerID, "request failed", 0, cause)
}

// NewClientError builds a non-retryable error raised before any network call.
func NewClientError(providerID, message string, cause error) *Error {
	return newError(ErrorTypeClientError, providerID, message, 0, cause)
}

// NewCircuitOpenError builds the fast-fail error of an open breaker.
func NewCircuitOpenError(providerID string) *Error {
	return newError(ErrorTypeCircuitOpen, providerID, "circuit breaker is open", 0, nil)
}

// AsError converts any error returned by a provider call into a typed Error.
func AsError(providerID string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(providerID, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(providerID, err)
	}

	if errors.Is(err, context.Canceled) {
		return NewClientError(providerID, "request cancelled", err)
	}

	return NewTransportError(providerID, err)
}

// ErrorTypeOf returns the type of a typed error, or an empty type.
func ErrorTypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ""
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "..."
}
