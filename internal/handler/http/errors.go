// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the middleware and handlers of this package.
// Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNoIdentity is returned when a protected handler runs without an
	// identity in the request context.
	ErrNoIdentity = errors.New("no identity in request context")

	// ErrForbidden is returned by the role gate when the identity may not
	// access the resource.
	ErrForbidden = errors.New("access to the resource is forbidden")

	// ErrInvalidQueryParam is returned when a listing query parameter cannot
	// be parsed.
	ErrInvalidQueryParam = errors.New("invalid query parameter")
)
