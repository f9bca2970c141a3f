// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Account represents an authenticable principal of the study platform.
// Sensitive fields must never be exposed outside trusted boundaries.
type Account struct {
	// ID is the unique identifier of the account (UUID v7).
	ID string `json:"id"`

	// Name is the display name shown in the dashboards.
	Name string `json:"name"`

	// Email is the unique login identifier.
	// It is always stored in normalized (trimmed, lower-case) form.
	Email string `json:"email"`

	// Secret carries the plaintext secret on the way in (registration, login).
	// It is never persisted and never serialized back to clients.
	Secret string `json:"secret,omitempty"`

	// SecretHash is the bcrypt hash of the secret. Never leaves the server.
	SecretHash string `json:"-"`

	// Role is the authorization role of the account.
	Role Role `json:"role"`

	// Status tells whether the account is active or deactivated.
	Status AccountStatus `json:"status"`

	// LastActiveAt is the time of the last successful login or verification.
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// Public returns the summary of the account that may be sent to clients.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Role:         a.Role,
		Status:       a.Status,
		LastActiveAt: a.LastActiveAt,
	}
}

// PublicAccount is the account summary returned by login, verify and admin listings.
type PublicAccount struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	LastActiveAt *time.Time    `json:"last_active_at,omitempty"`
}

// AccountFilter narrows down account listings.
// Zero values mean "no filter"; Limit falls back to a default page size.
type AccountFilter struct {
	Role   Role
	Status AccountStatus
	Limit  uint64
	Offset uint64
}
