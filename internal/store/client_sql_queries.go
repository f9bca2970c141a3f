// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// tokenKey is the client_kv key under which the session token is kept.
const tokenKey = "auth_token"

const (
	upsertClientValue = `
		INSERT INTO client_kv (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at;`

	getClientValue = `
		SELECT value
		FROM client_kv
		WHERE key = $1;`

	deleteClientValue = `
		DELETE FROM client_kv
		WHERE key = $1;`
)
