package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-study-platform/models"
	"github.com/golang-jwt/jwt/v5"
)

// timeNow is the clock used for issuing and validating tokens.
// Tests replace it to produce tokens at fixed points in time.
var timeNow = time.Now

// GenerateJWTToken creates a signed HMAC-SHA256 session token for the given identity.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the account ID
//   - IssuedAt  (iat), NotBefore (nbf): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - ID        (jti): a fresh UUID v7
//   - role, status: copied from the identity
//
// issuer, signKey, a non-zero tokenDuration and the account ID are required.
// A negative tokenDuration produces an already expired token.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("study-platform", identity, 24*time.Hour, "secret")
func GenerateJWTToken(issuer string, identity models.Identity, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" || identity.AccountID == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := timeNow()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.AccountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        NewID(),
		},
		Role:   identity.Role,
		Status: identity.Status,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, Claims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseJWTToken validates the given token string and extracts its claims.
//
// The checks run in a fixed order so that every failure has exactly one outcome:
//  1. not three dot-separated segments: ErrTokenMalformed
//  2. readable exp claim in the past: ErrTokenExpired, whatever the signature
//  3. HMAC-SHA256 signature mismatch: ErrTokenInvalidSignature
//  4. payload unreadable, wrong issuer, missing subject or unknown role/status: ErrTokenMalformed
//
// The function has no side effects; validating the same token twice yields the same claims.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return models.Token{}, ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)

	unverified := &models.Claims{}
	_, _, unverifiedErr := parser.ParseUnverified(tokenString, unverified)
	if unverifiedErr == nil && unverified.ExpiresAt != nil && !timeNow().Before(unverified.ExpiresAt.Time) {
		return models.Token{}, ErrTokenExpired
	}

	signature, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return models.Token{}, ErrTokenInvalidSignature
	}
	if err = jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], signature, []byte(tokenSignKey)); err != nil {
		return models.Token{}, ErrTokenInvalidSignature
	}
	if unverifiedErr != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenMalformed, unverifiedErr)
	}

	claims := &models.Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tokenSignKey), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.Token{}, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return models.Token{}, ErrTokenInvalidSignature
	case err != nil:
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return models.Token{}, fmt.Errorf("%w: empty subject", ErrTokenMalformed)
	}
	if !claims.Role.Valid() || !claims.Status.Valid() {
		return models.Token{}, fmt.Errorf("%w: unknown role or status", ErrTokenMalformed)
	}

	return models.Token{Token: token, Claims: *claims, SignedString: tokenString}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>" header value.
// The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}
	return parts[1], nil
}

// ParseExpiryUnverified reads the exp claim without checking the signature.
// Only for scheduling client-side re-checks; never use the result for trust decisions.
func ParseExpiryUnverified(tokenString string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
