package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnexpectedStatus    = errors.New("unexpected status")

	// ErrServerUnreachable wraps every transport failure: refused
	// connections, DNS errors and timeouts.
	ErrServerUnreachable = errors.New("server unreachable")
)

// APIError is a non-2xx answer of the server.
// It unwraps to the sentinel error of its status class.
type APIError struct {
	Status  int
	Code    string
	Message string

	// RetryAfter is the raw Retry-After header of a 429 answer.
	RetryAfter string

	kind error
}

// NewAPIError builds the error of a non-2xx answer with the given status.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message, kind: kindFromStatus(status)}
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s (http %d): %s", e.kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (http %d, %s): %s", e.kind, e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// ErrorCode returns the machine-readable reason carried by err,
// or an empty string if err is not an [*APIError].
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
