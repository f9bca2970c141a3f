package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token.
//
// The subject ("sub") carries the account ID; Role and Status are copied from
// the account at issuance time.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the role of the account when the token was issued.
	Role Role `json:"role"`

	// Status is the account status when the token was issued.
	Status AccountStatus `json:"status"`
}

// Token wraps a signed session token with convenience accessors.
//
// It embeds [jwt.Token] for low-level token operations and keeps the decoded
// [Claims] next to the compact serialized form.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// Claims is the decoded payload.
	Claims Claims `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`
}

// Identity returns the identity encoded in the token claims.
func (t *Token) Identity() Identity {
	return Identity{
		AccountID: t.Claims.Subject,
		Role:      t.Claims.Role,
		Status:    t.Claims.Status,
	}
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
