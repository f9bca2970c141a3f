package utils

import "errors"

var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")

	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")
)
