package utils

import "strings"

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Every lookup and write of an account email goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
