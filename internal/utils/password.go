package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrSecretMismatch = errors.New("secret does not match")

const dummySecret = "study-platform-dummy-secret"

// HashSecret hashes a plaintext secret with bcrypt.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashSecret(secret string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewDummyHash returns a hash to compare against when the account does not
// exist. It must use the same cost as real hashes, so that a login for an
// unknown email costs as much as a wrong secret.
func NewDummyHash(cost int) (string, error) {
	return HashSecret(dummySecret, cost)
}

// CompareSecret checks a plaintext secret against a bcrypt hash in constant time.
// An empty hash always fails.
func CompareSecret(hash, secret string) error {
	if hash == "" {
		return ErrSecretMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrSecretMismatch
	}
	return nil
}
