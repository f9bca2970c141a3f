package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	account, err := h.services.AuthService.RegisterAccount(ctx, models.Account{
		Name:   req.Name,
		Email:  req.Email,
		Secret: req.Secret,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("account_id", account.ID).Msg("account registered")
	utils.WriteJSON(w, account.Public(), http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	account, err := h.services.AuthService.Login(ctx, models.Account{Email: req.Email, Secret: req.Secret})
	if err != nil {
		var throttled *service.TooManyAttemptsError
		if errors.As(err, &throttled) {
			w.Header().Set("Retry-After", retryAfterSeconds(throttled))
		}
		h.writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("account_id", account.ID).Str("role", account.Role.String()).Msg("account logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, models.LoginResponse{Token: token.SignedString, Account: account.Public()}, http.StatusOK)
}

// verify answers whether the presented token is still good and returns the
// current summary of the account behind it.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrNoIdentity)
		return
	}

	account, err := h.services.AuthService.VerifyIdentity(ctx, identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	expiresAt, _ := utils.GetTokenExpiryFromContext(ctx)
	utils.WriteJSON(w, models.VerifyResponse{Account: account.Public(), ExpiresAt: expiresAt}, http.StatusOK)
}

func retryAfterSeconds(err *service.TooManyAttemptsError) string {
	seconds := int(math.Ceil(err.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
