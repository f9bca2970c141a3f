package http

import (
	"net/http"

	"github.com/MKhiriev/go-study-platform/internal/utils"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It reads the "Authorization: Bearer <token>" header, verifies the token via
// [service.AuthService.ParseToken] and, on success, stores the decoded
// [models.Identity] and the token expiry in the request context before
// delegating to the next handler. It never touches the credential store.
//
// Requests are rejected with 401 and the downstream handler is not invoked:
//   - no header: code "unauthenticated";
//   - a scheme other than Bearer: code "token_malformed";
//   - an expired token: code "token_expired", whatever its signature;
//   - a bad signature: code "token_invalid_signature";
//   - any other parse failure: code "token_malformed".
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx = utils.WithIdentity(ctx, token.Identity())
		if token.Claims.ExpiresAt != nil {
			ctx = utils.WithTokenExpiry(ctx, token.Claims.ExpiresAt.Time)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
