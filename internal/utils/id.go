package utils

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7 used for account and token IDs.
// A random UUIDv4 is returned if the v7 clock source fails.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
