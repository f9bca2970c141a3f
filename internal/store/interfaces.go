// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store is the persistence layer: the PostgreSQL account repository
// used by the server and the SQLite token store used by the terminal client.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-study-platform/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AccountRepository is the credential store. It is the only path through
// which accounts are created or mutated; email uniqueness is enforced by the
// database and surfaced as [ErrEmailAlreadyExists].
type AccountRepository interface {
	// CreateAccount inserts a new account and returns the stored row.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// FindAccountByEmail looks up an account by its normalized email.
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)

	// FindAccountByID looks up an account by its identifier.
	FindAccountByID(ctx context.Context, id string) (models.Account, error)

	// UpdateProfile changes the display name.
	UpdateProfile(ctx context.Context, id, name string) (models.Account, error)

	// UpdateRole changes the role of the account.
	UpdateRole(ctx context.Context, id string, role models.Role) (models.Account, error)

	// UpdateStatus activates or deactivates the account.
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) (models.Account, error)

	// TouchLastActive records the time of the latest successful authentication.
	TouchLastActive(ctx context.Context, id string, at time.Time) error

	// ListAccounts returns a page of accounts ordered by creation time.
	ListAccounts(ctx context.Context, filter models.AccountFilter) ([]models.Account, error)
}

// ErrorClassificator decides whether a failed database operation is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
