package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidName    = errors.New("name must be between 1 and 100 characters")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrInvalidSecret  = errors.New("secret must be between 8 and 72 bytes")
	ErrEmptySecret    = errors.New("secret is required")
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidID      = errors.New("invalid account ID")
	ErrInvalidPageLen = errors.New("limit must not exceed 500")
)
