// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides abstractions for input validation and
// enforcement of business rules across the application.
//
// AccountValidator covers registration and login payloads, stored accounts
// and admin listing filters. Handlers call it before the services so that
// malformed input is rejected with 400 before any storage access.
package validators

import "context"

// Validator validates a value, optionally restricted to the named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
