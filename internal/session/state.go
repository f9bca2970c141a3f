package session

import (
	"time"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/models"
)

// State is the position of the client session in its lifecycle.
type State int

const (
	// StateUnknown is the state before the first verification.
	StateUnknown State = iota
	// StateChecking means a verification or login is in flight.
	StateChecking
	// StateAuthenticated means the server accepted the stored token.
	StateAuthenticated
	// StateUnauthenticated means there is no usable session. See [Reason].
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "invalid"
	}
}

// Reason tells why a session is unauthenticated.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonLoginRequired Reason = "login_required"
	ReasonExpired       Reason = "expired"
	ReasonUnreachable   Reason = "unreachable"
)

// Message returns the user-facing text for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonLoginRequired:
		return app.MsgLoginRequired
	case ReasonExpired:
		return app.MsgSessionExpired
	case ReasonUnreachable:
		return app.MsgServerUnreachable
	default:
		return ""
	}
}

// Snapshot is an immutable view of the session.
// Account and ExpiresAt are set only in [StateAuthenticated].
type Snapshot struct {
	State     State
	Reason    Reason
	Account   models.PublicAccount
	ExpiresAt time.Time
}

// Identity returns the principal of an authenticated session, or nil.
func (s Snapshot) Identity() *models.Identity {
	if s.State != StateAuthenticated {
		return nil
	}
	return &models.Identity{
		AccountID: s.Account.ID,
		Role:      s.Account.Role,
		Status:    s.Account.Status,
	}
}

// Authenticated reports whether the session holds a verified account.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

func unauthenticated(reason Reason) Snapshot {
	return Snapshot{State: StateUnauthenticated, Reason: reason}
}
