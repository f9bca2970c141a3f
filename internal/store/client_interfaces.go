package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// TokenStore persists the client's session token. It is owned by the session
// client; no other component reads or writes token material.
type TokenStore interface {
	// SaveToken stores the token, replacing any previous one.
	SaveToken(ctx context.Context, token string) error

	// LoadToken returns the stored token or [ErrTokenNotFound].
	LoadToken(ctx context.Context) (string, error)

	// ClearToken removes the stored token. Clearing an empty store is not an error.
	ClearToken(ctx context.Context) error
}
