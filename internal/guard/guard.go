// Package guard decides what the client shows for a route given the current
// session. Role checks reuse [access.Authorize], so the client and the server
// gate resources the same way.
package guard

import (
	"context"

	"github.com/MKhiriev/go-study-platform/internal/access"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/session"
	"github.com/MKhiriev/go-study-platform/models"
)

// Session is the part of [session.Session] the guard depends on.
type Session interface {
	Current() session.Snapshot
	Check(ctx context.Context) (session.Snapshot, error)
	Revalidate(ctx context.Context) (session.Snapshot, error)
}

// Guard evaluates every navigation against a freshly verified session.
// Outcomes are never cached.
type Guard struct {
	session Session
	logger  *logger.Logger
}

// New returns a guard backed by s.
func New(s Session, logger *logger.Logger) *Guard {
	return &Guard{session: s, logger: logger}
}

// Navigate evaluates route. Public routes are decided locally. Protected
// routes first resolve an unknown session or re-verify a known one, so role
// and status changes made by an administrator apply on the next navigation.
func (g *Guard) Navigate(ctx context.Context, route Route) Outcome {
	if route.Public() {
		return Evaluate(route, g.session.Current())
	}

	var (
		snap session.Snapshot
		err  error
	)
	if g.session.Current().State == session.StateUnknown {
		snap, err = g.session.Check(ctx)
	} else {
		snap, err = g.session.Revalidate(ctx)
	}
	if err != nil {
		g.logger.Debug().Err(err).Str("route", route.Path).Msg("session verification failed during navigation")
	}

	outcome := Evaluate(route, snap)
	g.logger.Debug().
		Str("route", route.Path).
		Str("state", snap.State.String()).
		Str("action", outcome.Action.String()).
		Str("target", outcome.Target.Path).
		Msg("navigation evaluated")
	return outcome
}

// Evaluate is the pure routing decision for route in the given session state.
func Evaluate(route Route, snap session.Snapshot) Outcome {
	if route.Public() {
		return Outcome{Action: ActionRender, Target: route}
	}

	switch snap.State {
	case session.StateUnknown:
		return Outcome{Action: ActionCheck, Target: route}
	case session.StateChecking:
		return Outcome{Action: ActionLoading, Target: route}
	case session.StateUnauthenticated:
		return Outcome{Action: ActionRedirectLogin, Target: RouteLogin, Reason: snap.Reason}
	}

	identity := snap.Identity()
	if route.SessionOnly {
		if identity.Active() {
			return Outcome{Action: ActionRedirectHome, Target: HomeFor(*identity)}
		}
		return Outcome{Action: ActionRender, Target: route}
	}

	switch access.Authorize(identity, route.Role) {
	case access.Allow:
		return Outcome{Action: ActionRender, Target: route}
	case access.DenyUnauthenticated:
		return Outcome{Action: ActionRedirectLogin, Target: RouteLogin, Reason: session.ReasonLoginRequired}
	default:
		return Outcome{Action: ActionRedirectHome, Target: HomeFor(*identity)}
	}
}

// HomeFor returns the default view of an account: the restricted notice for
// inactive accounts, otherwise the dashboard of its role.
func HomeFor(identity models.Identity) Route {
	if !identity.Active() {
		return RouteInactive
	}
	if identity.Role == models.RoleAdmin {
		return RouteAdminDashboard
	}
	return RouteDashboard
}
