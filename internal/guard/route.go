package guard

import (
	"github.com/MKhiriev/go-study-platform/internal/access"
	"github.com/MKhiriev/go-study-platform/internal/session"
	"github.com/MKhiriev/go-study-platform/models"
)

// Route is a client view.
type Route struct {
	Path string
	// Role required to render the route. [access.Public] for public routes.
	Role models.Role
	// SessionOnly routes need a session but no role.
	SessionOnly bool
}

// Public reports whether the route renders without a session.
func (r Route) Public() bool {
	return r.Role == access.Public && !r.SessionOnly
}

var (
	RouteWelcome        = Route{Path: "/"}
	RouteLogin          = Route{Path: "/login"}
	RouteRegister       = Route{Path: "/register"}
	RouteAbout          = Route{Path: "/about"}
	RouteDashboard      = Route{Path: "/dashboard", Role: models.RoleUser}
	RouteAdminDashboard = Route{Path: "/admin/dashboard", Role: models.RoleAdmin}
	RouteInactive       = Route{Path: "/inactive", SessionOnly: true}
)

// Routes lists every client view.
var Routes = []Route{RouteWelcome, RouteLogin, RouteRegister, RouteAbout, RouteDashboard, RouteAdminDashboard, RouteInactive}

// Lookup finds a route by path.
func Lookup(path string) (Route, bool) {
	for _, route := range Routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// Action is what the client does with a route.
type Action int

const (
	// ActionRender shows the route.
	ActionRender Action = iota
	// ActionCheck asks the caller to resolve the session first.
	ActionCheck
	// ActionLoading shows a placeholder while a check is in flight.
	ActionLoading
	// ActionRedirectLogin sends the user to the login view.
	ActionRedirectLogin
	// ActionRedirectHome sends the user to the default view of their account.
	ActionRedirectHome
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionCheck:
		return "check"
	case ActionLoading:
		return "loading"
	case ActionRedirectLogin:
		return "redirect_login"
	case ActionRedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating a route.
// Target is the route to show: the requested one or the redirect destination.
type Outcome struct {
	Action Action
	Target Route
	// Reason is set on login redirects.
	Reason session.Reason
}
