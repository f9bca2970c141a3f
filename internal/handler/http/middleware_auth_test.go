package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
)

func executeAuth(env *testEnv, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	env.handler.auth(next).ServeHTTP(rec, req)
	return rec
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		parseErr error
		wantCode string
	}{
		{name: "no header", header: "", wantCode: app.CodeUnauthenticated},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantCode: app.CodeTokenMalformed},
		{name: "bearer without token", header: "Bearer", wantCode: app.CodeTokenMalformed},
		{name: "expired", header: "Bearer a.b.c", parseErr: utils.ErrTokenExpired, wantCode: app.CodeTokenExpired},
		{name: "bad signature", header: "Bearer a.b.c", parseErr: utils.ErrTokenInvalidSignature, wantCode: app.CodeTokenInvalidSignature},
		{name: "malformed", header: "Bearer abc", parseErr: fmt.Errorf("%w: two segments", utils.ErrTokenMalformed), wantCode: app.CodeTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.parseErr != nil {
				env.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(models.Token{}, tt.parseErr)
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

			rec := executeAuth(env, tt.header, next)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, nextCalled, "downstream handler must not run")
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestAuth_AttachesIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.auth.EXPECT().ParseToken(gomock.Any(), "good.token.sig").Return(tokenFor(adminIdentity()), nil)

	var (
		gotIdentity models.Identity
		gotOK       bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, gotOK = utils.GetIdentityFromContext(r.Context())
		expiresAt, ok := utils.GetTokenExpiryFromContext(r.Context())
		assert.True(t, ok)
		assert.True(t, expiresAt.Equal(tokenExpiry))
		w.WriteHeader(http.StatusNoContent)
	})

	rec := executeAuth(env, "bearer good.token.sig", next)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, gotOK)
	assert.Equal(t, adminIdentity(), gotIdentity)
}
