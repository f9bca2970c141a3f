package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/internal/validators"
	"github.com/MKhiriev/go-study-platform/models"
)

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := accountFilterFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.validator.Validate(ctx, filter); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	accounts, err := h.services.AccountService.ListAccounts(ctx, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := models.AccountsResponse{Accounts: make([]models.PublicAccount, 0, len(accounts))}
	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, account.Public())
	}
	resp.Length = len(resp.Accounts)

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, id, ok := h.adminTarget(w, r)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	account, err := h.services.AccountService.ChangeRole(ctx, actor, id, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account.Public(), http.StatusOK)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, id, ok := h.adminTarget(w, r)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	account, err := h.services.AccountService.ChangeStatus(ctx, actor, id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account.Public(), http.StatusOK)
}

// adminTarget returns the acting identity and the validated {id} URL
// parameter. On failure the error response is already written.
func (h *Handler) adminTarget(w http.ResponseWriter, r *http.Request) (models.Identity, string, bool) {
	actor, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, ErrNoIdentity)
		return models.Identity{}, "", false
	}

	id := chi.URLParam(r, "id")
	if err := h.validator.Validate(r.Context(), models.Account{ID: id}, validators.FieldID); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return models.Identity{}, "", false
	}

	return actor, id, true
}

func accountFilterFromQuery(r *http.Request) (models.AccountFilter, error) {
	query := r.URL.Query()

	filter := models.AccountFilter{
		Role:   models.Role(query.Get("role")),
		Status: models.AccountStatus(query.Get("status")),
	}

	var err error
	if raw := query.Get("limit"); raw != "" {
		if filter.Limit, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return models.AccountFilter{}, fmt.Errorf("%w: limit: %w", ErrInvalidQueryParam, err)
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if filter.Offset, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return models.AccountFilter{}, fmt.Errorf("%w: offset: %w", ErrInvalidQueryParam, err)
		}
	}

	return filter, nil
}
