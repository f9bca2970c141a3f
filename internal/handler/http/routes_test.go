package http

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/models"
)

func TestInit_PublicRoutesSkipAuth(t *testing.T) {
	env := newTestEnv(t)
	env.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.4.0")

	version := env.do(t, http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, version.Code)
	assert.Equal(t, "1.4.0", version.Body.String())

	metrics := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "study_platform_http_requests_total")
}

func TestInit_MetricsRouteNeedsRecorder(t *testing.T) {
	h := NewHandler(&service.Services{}, nil, logger.Nop())
	router := h.Init()

	routes := router.Routes()
	for _, route := range routes {
		assert.NotEqual(t, "/metrics", route.Pattern)
	}
}

// Every protected route answers 401 without a token and never reaches a service.
func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/verify"},
		{http.MethodGet, "/api/me"},
		{http.MethodPatch, "/api/me"},
		{http.MethodGet, "/api/admin/accounts"},
		{http.MethodPatch, "/api/admin/accounts/" + otherID + "/role"},
		{http.MethodPatch, "/api/admin/accounts/" + otherID + "/status"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, route.method, route.path, "", nil)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, app.CodeUnauthenticated, decodeError(t, rec).Code)
		})
	}
}

func TestInit_RoleMatrix(t *testing.T) {
	tests := []struct {
		token      string
		path       string
		wantStatus int
	}{
		{userToken, "/api/admin/accounts", http.StatusForbidden},
		{inactiveToken, "/api/admin/accounts", http.StatusForbidden},
		{adminToken, "/api/me", http.StatusForbidden},
		{inactiveToken, "/api/me", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.token+" "+tt.path, func(t *testing.T) {
			env := newTestEnv(t)
			env.expectToken(userToken, userIdentity())
			env.expectToken(adminToken, adminIdentity())
			env.expectToken(inactiveToken, inactiveIdentity())

			rec := env.do(t, http.MethodGet, tt.path, tt.token, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, app.CodeForbidden, decodeError(t, rec).Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/unknown", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	env := newTestEnv(t)

	for _, method := range []string{http.MethodDelete, http.MethodPut} {
		rec := env.do(t, method, "/api/auth/login", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestInit_TraceIDIsEchoed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/unknown", "", nil)

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestInit_RequestsAreCountedByRoutePattern(t *testing.T) {
	env := newTestEnv(t)
	env.expectToken(adminToken, adminIdentity())
	env.account.EXPECT().ChangeStatus(gomock.Any(), gomock.Any(), otherID, gomock.Any()).Return(accountOf(userIdentity()), nil)

	env.do(t, http.MethodPatch, "/api/admin/accounts/"+otherID+"/status", adminToken, `{"status":"inactive"}`)
	metrics := env.do(t, http.MethodGet, "/metrics", "", nil)

	body := metrics.Body.String()
	assert.True(t, strings.Contains(body, `route="/api/admin/accounts/{id}/status"`), body)
	assert.False(t, strings.Contains(body, otherID))
}

func TestInit_CompressesJSONForGzipClients(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	defer zr.Close()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(zr).Decode(&body))
	assert.Equal(t, app.CodeUnauthenticated, body.Code)
}
