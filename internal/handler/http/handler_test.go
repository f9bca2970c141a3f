package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/metrics"
	"github.com/MKhiriev/go-study-platform/internal/mock"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/models"
)

const (
	userID  = "01928c7e-0000-7000-8000-000000000001"
	adminID = "01928c7e-0000-7000-8000-000000000002"
	otherID = "01928c7e-0000-7000-8000-000000000003"

	userToken     = "user.token.sig"
	adminToken    = "admin.token.sig"
	inactiveToken = "inactive.token.sig"
)

var tokenExpiry = time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	auth    *mock.MockAuthService
	account *mock.MockAccountService
	appInfo *mock.MockAppInfoService
	metrics *metrics.Metrics
	handler *Handler
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &testEnv{
		auth:    mock.NewMockAuthService(ctrl),
		account: mock.NewMockAccountService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
		metrics: metrics.New(),
	}
	env.handler = NewHandler(&service.Services{
		AuthService:    env.auth,
		AccountService: env.account,
		AppInfoService: env.appInfo,
	}, env.metrics, logger.Nop())
	env.router = env.handler.Init()

	return env
}

// expectToken makes ParseToken accept tokenString as a token of identity
// whose claims still match the stored account.
func (e *testEnv) expectToken(tokenString string, identity models.Identity) {
	e.expectStaleToken(tokenString, identity, identity)
}

// expectStaleToken makes ParseToken accept tokenString as a token of claimed
// while the stored account has since changed to current.
func (e *testEnv) expectStaleToken(tokenString string, claimed, current models.Identity) {
	e.auth.EXPECT().ParseToken(gomock.Any(), tokenString).Return(tokenFor(claimed), nil).AnyTimes()
	e.auth.EXPECT().CurrentIdentity(gomock.Any(), claimed).Return(current, nil).AnyTimes()
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func tokenFor(identity models.Identity) models.Token {
	return models.Token{
		Claims: models.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   identity.AccountID,
				ExpiresAt: jwt.NewNumericDate(tokenExpiry),
			},
			Role:   identity.Role,
			Status: identity.Status,
		},
		SignedString: "signed." + identity.AccountID,
	}
}

func userIdentity() models.Identity {
	return models.Identity{AccountID: userID, Role: models.RoleUser, Status: models.StatusActive}
}

func adminIdentity() models.Identity {
	return models.Identity{AccountID: adminID, Role: models.RoleAdmin, Status: models.StatusActive}
}

func inactiveIdentity() models.Identity {
	return models.Identity{AccountID: userID, Role: models.RoleUser, Status: models.StatusInactive}
}

func accountOf(identity models.Identity) models.Account {
	return models.Account{
		ID:         identity.AccountID,
		Name:       "Alice",
		Email:      "alice@example.com",
		SecretHash: "$2a$10$hash",
		Role:       identity.Role,
		Status:     identity.Status,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func TestNewHandler(t *testing.T) {
	t.Run("with metrics", func(t *testing.T) {
		m := metrics.New()
		h := NewHandler(&service.Services{}, m, logger.Nop())

		require.NotNil(t, h)
		assert.NotNil(t, h.validator)
		assert.Equal(t, m, h.metrics)
		assert.NotNil(t, h.metricsHandler)
	})

	t.Run("without metrics", func(t *testing.T) {
		h := NewHandler(&service.Services{}, nil, logger.Nop())

		require.NotNil(t, h)
		assert.NotNil(t, h.metrics)
		assert.Nil(t, h.metricsHandler)
	})
}
