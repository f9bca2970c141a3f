package models

// Identity is the authenticated principal attached to a request context
// after the token has been verified.
type Identity struct {
	AccountID string
	Role      Role
	Status    AccountStatus
}

// Active reports whether the identity belongs to an active account.
func (i Identity) Active() bool {
	return i.Status == StatusActive
}
