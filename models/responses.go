package models

import "time"

// LoginResponse is returned by a successful login.
// The token is also sent in the Authorization header.
type LoginResponse struct {
	Token   string        `json:"token"`
	Account PublicAccount `json:"account"`
}

// AccountsResponse is a page of account summaries.
type AccountsResponse struct {
	Accounts []PublicAccount `json:"accounts"`
	Length   int             `json:"length"`
}

// ErrorResponse is the body of every non-2xx API response.
//
// Code is machine-readable and stable (for example "token_expired");
// Message is meant for humans.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VerifyResponse is returned by GET /api/auth/verify.
// Account is re-read from the store, so it reflects the current role and status.
type VerifyResponse struct {
	Account   PublicAccount `json:"account"`
	ExpiresAt time.Time     `json:"expires_at"`
}
