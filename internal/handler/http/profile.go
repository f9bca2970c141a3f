package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/internal/validators"
	"github.com/MKhiriev/go-study-platform/models"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrNoIdentity)
		return
	}

	account, err := h.services.AccountService.GetAccount(ctx, identity.AccountID)
	if err != nil {
		h.writeError(w, r, ownAccountError(err))
		return
	}

	utils.WriteJSON(w, account.Public(), http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrNoIdentity)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.validator.Validate(ctx, models.Account{Name: req.Name}, validators.FieldName); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	account, err := h.services.AccountService.UpdateProfile(ctx, identity.AccountID, req.Name)
	if err != nil {
		h.writeError(w, r, ownAccountError(err))
		return
	}

	utils.WriteJSON(w, account.Public(), http.StatusOK)
}

// ownAccountError turns a missing own account into an authentication failure:
// the token outlived the account it was issued for.
func ownAccountError(err error) error {
	if errors.Is(err, store.ErrAccountNotFound) {
		return service.ErrAccountGone
	}
	return err
}
