package http

import (
	"net/http"

	"github.com/MKhiriev/go-study-platform/internal/access"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

// requireRole gates the wrapped routes behind the given role. It must run
// after auth: a missing identity is answered with 401, a role mismatch or an
// inactive account with 403. Role and status are taken from the stored
// account, not from the token claims, so a demotion or deactivation applies
// to the next request. A deleted account is answered with 401.
func (h *Handler) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity *models.Identity
			if claimed, ok := utils.GetIdentityFromContext(r.Context()); ok {
				current, err := h.services.AuthService.CurrentIdentity(r.Context(), claimed)
				if err != nil {
					h.writeError(w, r, err)
					return
				}
				if current != claimed {
					logger.FromRequest(r).Debug().
						Str("account_id", claimed.AccountID).
						Str("claimed_role", claimed.Role.String()).
						Str("current_role", current.Role.String()).
						Str("current_status", current.Status.String()).
						Msg("token claims are stale")
				}
				identity = &current
				r = r.WithContext(utils.WithIdentity(r.Context(), current))
			}

			decision := access.Authorize(identity, role)
			h.metrics.ObserveAccessDecision(decision.String())

			switch decision {
			case access.Allow:
				next.ServeHTTP(w, r)
			case access.DenyUnauthenticated:
				h.writeError(w, r, ErrNoIdentity)
			default:
				logger.FromRequest(r).Info().
					Str("account_id", identity.AccountID).
					Str("role", identity.Role.String()).
					Str("status", identity.Status.String()).
					Str("required_role", role.String()).
					Msg("access denied")
				h.writeError(w, r, ErrForbidden)
			}
		})
	}
}
