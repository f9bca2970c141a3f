// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// study-platform server handlers, middleware and the terminal client.
//
// Code* constants are the stable machine-readable reasons carried in the
// "code" field of every error response body. Clients branch on them.
//
// Msg* constants are the human-readable messages that accompany them.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	CodeBadRequest            = "bad_request"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeUnauthenticated       = "unauthenticated"
	CodeTokenExpired          = "token_expired"
	CodeTokenInvalidSignature = "token_invalid_signature"
	CodeTokenMalformed        = "token_malformed"
	CodeForbidden             = "forbidden"
	CodeNotFound              = "not_found"
	CodeConflict              = "conflict"
	CodeTooManyRequests       = "too_many_requests"
	CodeInternal              = "internal"
)

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation (e.g. a malformed email or a short secret).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidCredentials is returned for an unknown email and for a wrong
	// secret alike, so that callers cannot probe which emails exist.
	MsgInvalidCredentials = "invalid email or secret"

	// MsgAuthenticationRequired is returned when a protected resource is
	// requested without a bearer token, or the account behind the token no
	// longer exists.
	MsgAuthenticationRequired = "authentication required"

	// MsgTokenIsExpired is returned when the session token expired.
	MsgTokenIsExpired = "session expired, please log in again"

	// MsgTokenInvalidSignature is returned when the token signature does not
	// match the server key.
	MsgTokenInvalidSignature = "token signature is invalid"

	// MsgTokenMalformed is returned when the token cannot be parsed or the
	// Authorization header does not use the Bearer scheme.
	MsgTokenMalformed = "token is malformed"

	// MsgAccessDenied is returned when the account role does not allow the
	// requested resource, or the account is inactive.
	MsgAccessDenied = "access denied"

	// MsgSelfModification is returned when an administrator tries to change
	// their own role or status.
	MsgSelfModification = "you cannot change your own role or status"

	// MsgAccountNotFound is returned by the administrator operations for an
	// unknown account ID.
	MsgAccountNotFound = "account not found"

	// MsgRouteNotFound answers unknown paths and unsupported methods.
	MsgRouteNotFound = "route not found"

	// MsgEmailAlreadyExists is returned when a registration attempt is
	// rejected because the email is already in use.
	MsgEmailAlreadyExists = "email already exists"

	// MsgTooManyAttempts is returned when the login budget of an email is
	// exhausted. The Retry-After header tells when to try again.
	MsgTooManyAttempts = "too many login attempts, try again later"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgServerUnreachable is shown by the client when the server cannot be
	// reached even after a retry.
	MsgServerUnreachable = "server unreachable"

	// MsgLoginRequired is shown by the client when a view needs a session.
	MsgLoginRequired = "please log in"

	// MsgSessionExpired is shown by the client when the stored session
	// expired or was rejected by the server.
	MsgSessionExpired = "session expired, please log in again"

	// MsgAccountInactive is shown by the client on the restricted notice view.
	MsgAccountInactive = "your account is inactive, contact an administrator"
)
