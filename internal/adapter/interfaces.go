// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the study-platform server.
//
// The primary abstraction is [ServerAdapter], which decouples the session
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Non-2xx responses are decoded by mapHTTPError into an [*APIError] that
// wraps one of the sentinel values defined in errors.go, so callers can use
// [errors.Is] for the status class (e.g. [ErrUnauthorized] for 401) and
// [errors.As] for the machine-readable reason (e.g. "token_expired").
// Transport failures are wrapped with [ErrServerUnreachable].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-study-platform/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// study-platform server. Implementations are responsible for serialisation,
// attaching the bearer token to protected calls, and mapping transport-level
// errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// protected requests. An empty token detaches it.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates a new account and returns its public summary.
	// It does not log in.
	Register(ctx context.Context, req models.RegisterRequest) (models.PublicAccount, error)

	// Login exchanges credentials for a session token. On success the token
	// is stored via SetToken and returned together with the account summary.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)

	// Verify asks the server whether the stored token is still valid and
	// returns the current account summary.
	Verify(ctx context.Context) (models.VerifyResponse, error)

	// GetProfile returns the profile of the authenticated user.
	GetProfile(ctx context.Context) (models.PublicAccount, error)

	// UpdateProfile renames the authenticated user.
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.PublicAccount, error)

	// ListAccounts returns a page of accounts. Administrators only.
	ListAccounts(ctx context.Context, filter models.AccountFilter) (models.AccountsResponse, error)

	// ChangeRole sets the role of the account with the given ID. Administrators only.
	ChangeRole(ctx context.Context, id string, role models.Role) (models.PublicAccount, error)

	// ChangeStatus sets the status of the account with the given ID. Administrators only.
	ChangeStatus(ctx context.Context, id string, status models.AccountStatus) (models.PublicAccount, error)

	// GetServerVersion returns the build version reported by the server.
	GetServerVersion(ctx context.Context) (string, error)
}
