package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-study-platform/models"
)

// Init builds the router.
//
// Public routes are mounted outside the auth middleware and the role gate.
// /api/auth/verify needs any valid token; /api/me is for the user role and
// /api/admin for the admin role, with strict role matching.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5, "application/json"))
	router.Use(h.withTraceID, h.withLogging, h.withMetrics)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/version", h.getServerVersion)
		if h.metricsHandler != nil {
			r.Method("GET", "/metrics", h.metricsHandler)
		}
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/verify", h.verify)

		r.Group(func(r chi.Router) {
			r.Use(h.requireRole(models.RoleUser))
			r.Get("/api/me", h.getProfile)
			r.Patch("/api/me", h.updateProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireRole(models.RoleAdmin))
			r.Get("/api/admin/accounts", h.listAccounts)
			r.Patch("/api/admin/accounts/{id}/role", h.changeRole)
			r.Patch("/api/admin/accounts/{id}/status", h.changeStatus)
		})
	})

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	return router
}
