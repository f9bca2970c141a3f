package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// secret alike.
	ErrInvalidCredentials = errors.New("invalid email or secret")

	ErrTooManyAttempts     = errors.New("too many login attempts")
	ErrTokenCreationFailed = errors.New("token creation failed")
	ErrAccountGone         = errors.New("account no longer exists")
	ErrSelfModification    = errors.New("administrators cannot change their own role or status")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// TooManyAttemptsError carries the time after which the next login attempt
// is allowed. It matches [ErrTooManyAttempts] with errors.Is.
type TooManyAttemptsError struct {
	RetryAfter time.Duration
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrTooManyAttempts, e.RetryAfter)
}

func (e *TooManyAttemptsError) Unwrap() error {
	return ErrTooManyAttempts
}
