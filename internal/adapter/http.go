package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and request
// timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)
	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent protected requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the new account to
// POST /api/auth/register and returns the created account summary.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.PublicAccount, error) {
	var account models.PublicAccount

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&account).
		Post("/api/auth/register")
	if err != nil {
		return models.PublicAccount{}, transportError(ctx, "register", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PublicAccount{}, err
	}

	return account, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login. The token is taken from the response body, falling
// back to the Authorization header, and stored via SetToken.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var loginResp models.LoginResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&loginResp).
		Post("/api/auth/login")
	if err != nil {
		return models.LoginResponse{}, transportError(ctx, "login", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginResponse{}, err
	}

	if loginResp.Token == "" {
		token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
		if err != nil {
			return models.LoginResponse{}, fmt.Errorf("login parse bearer token: %w", err)
		}
		loginResp.Token = token
	}

	h.SetToken(loginResp.Token)
	return loginResp, nil
}

// Verify implements [ServerAdapter]. GET /api/auth/verify.
func (h *httpServerAdapter) Verify(ctx context.Context) (models.VerifyResponse, error) {
	var verifyResp models.VerifyResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&verifyResp).
		Get("/api/auth/verify")
	if err != nil {
		return models.VerifyResponse{}, transportError(ctx, "verify", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VerifyResponse{}, err
	}

	return verifyResp, nil
}

// GetProfile implements [ServerAdapter]. GET /api/me.
func (h *httpServerAdapter) GetProfile(ctx context.Context) (models.PublicAccount, error) {
	var account models.PublicAccount

	resp, err := h.authedRequest(ctx).
		SetResult(&account).
		Get("/api/me")
	if err != nil {
		return models.PublicAccount{}, transportError(ctx, "get profile", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PublicAccount{}, err
	}

	return account, nil
}

// UpdateProfile implements [ServerAdapter]. PATCH /api/me.
func (h *httpServerAdapter) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.PublicAccount, error) {
	var account models.PublicAccount

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&account).
		Patch("/api/me")
	if err != nil {
		return models.PublicAccount{}, transportError(ctx, "update profile", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PublicAccount{}, err
	}

	return account, nil
}

// ListAccounts implements [ServerAdapter]. GET /api/admin/accounts with the
// non-zero filter fields sent as query parameters.
func (h *httpServerAdapter) ListAccounts(ctx context.Context, filter models.AccountFilter) (models.AccountsResponse, error) {
	var accounts models.AccountsResponse

	resp, err := h.authedRequest(ctx).
		SetQueryParams(filterQuery(filter)).
		SetResult(&accounts).
		Get("/api/admin/accounts")
	if err != nil {
		return models.AccountsResponse{}, transportError(ctx, "list accounts", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AccountsResponse{}, err
	}

	return accounts, nil
}

// ChangeRole implements [ServerAdapter]. PATCH /api/admin/accounts/{id}/role.
func (h *httpServerAdapter) ChangeRole(ctx context.Context, id string, role models.Role) (models.PublicAccount, error) {
	var account models.PublicAccount

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(models.UpdateRoleRequest{Role: role}).
		SetResult(&account).
		Patch("/api/admin/accounts/{id}/role")
	if err != nil {
		return models.PublicAccount{}, transportError(ctx, "change role", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PublicAccount{}, err
	}

	return account, nil
}

// ChangeStatus implements [ServerAdapter]. PATCH /api/admin/accounts/{id}/status.
func (h *httpServerAdapter) ChangeStatus(ctx context.Context, id string, status models.AccountStatus) (models.PublicAccount, error) {
	var account models.PublicAccount

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(models.UpdateStatusRequest{Status: status}).
		SetResult(&account).
		Patch("/api/admin/accounts/{id}/status")
	if err != nil {
		return models.PublicAccount{}, transportError(ctx, "change status", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PublicAccount{}, err
	}

	return account, nil
}

// GetServerVersion implements [ServerAdapter]. GET /api/version answers with
// plain text.
func (h *httpServerAdapter) GetServerVersion(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/api/version")
	if err != nil {
		return "", transportError(ctx, "get server version", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func filterQuery(filter models.AccountFilter) map[string]string {
	params := make(map[string]string)
	if filter.Role != "" {
		params["role"] = filter.Role.String()
	}
	if filter.Status != "" {
		params["status"] = filter.Status.String()
	}
	if filter.Limit > 0 {
		params["limit"] = strconv.FormatUint(filter.Limit, 10)
	}
	if filter.Offset > 0 {
		params["offset"] = strconv.FormatUint(filter.Offset, 10)
	}
	return params
}

// transportError keeps a cancelled caller context distinguishable from an
// unreachable server.
func transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s request: %w", op, ctxErr)
	}
	return fmt.Errorf("%w: %s request: %w", ErrServerUnreachable, op, err)
}
