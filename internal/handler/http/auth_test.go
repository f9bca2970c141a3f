// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/models"
)

func TestRegister(t *testing.T) {
	validBody := models.RegisterRequest{Name: "Alice", Email: "Alice@Example.com", Secret: "correct-horse"}

	tests := []struct {
		name       string
		body       any
		setup      func(env *testEnv)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: validBody,
			setup: func(env *testEnv) {
				env.auth.EXPECT().
					RegisterAccount(gomock.Any(), models.Account{Name: "Alice", Email: "Alice@Example.com", Secret: "correct-horse"}).
					Return(accountOf(userIdentity()), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid JSON",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:       "invalid email",
			body:       models.RegisterRequest{Name: "Alice", Email: "not-an-email", Secret: "correct-horse"},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:       "short secret",
			body:       models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Secret: "short"},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name: "email taken",
			body: validBody,
			setup: func(env *testEnv) {
				env.auth.EXPECT().RegisterAccount(gomock.Any(), gomock.Any()).
					Return(models.Account{}, store.ErrEmailAlreadyExists)
			},
			wantStatus: http.StatusConflict,
			wantCode:   app.CodeConflict,
		},
		{
			name: "unexpected error",
			body: validBody,
			setup: func(env *testEnv) {
				env.auth.EXPECT().RegisterAccount(gomock.Any(), gomock.Any()).
					Return(models.Account{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   app.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			rec := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}

			var got models.PublicAccount
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, userID, got.ID)
			assert.NotContains(t, rec.Body.String(), "$2a$")
		})
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	account := accountOf(userIdentity())

	env.auth.EXPECT().
		Login(gomock.Any(), models.Account{Email: "alice@example.com", Secret: "correct-horse"}).
		Return(account, nil)
	env.auth.EXPECT().CreateToken(gomock.Any(), account).Return(tokenFor(userIdentity()), nil)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "alice@example.com", Secret: "correct-horse"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed."+userID, rec.Header().Get("Authorization"))

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed."+userID, resp.Token)
	assert.Equal(t, account.Public(), resp.Account)
	assert.NotContains(t, rec.Body.String(), "secret")
}

// Unknown email and wrong secret must be indistinguishable.
func TestLogin_InvalidCredentialsBodyIsUniform(t *testing.T) {
	env := newTestEnv(t)
	env.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.Account{}, service.ErrInvalidCredentials).Times(2)

	unknown := env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ghost@example.com", Secret: "whatever1"})
	wrong := env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "alice@example.com", Secret: "wrong-secret"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, app.CodeInvalidCredentials, decodeError(t, unknown).Code)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setup          func(env *testEnv)
		wantStatus     int
		wantCode       string
		wantRetryAfter string
	}{
		{
			name:       "empty secret",
			body:       models.LoginRequest{Email: "alice@example.com"},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       "[]",
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name: "rate limited",
			body: models.LoginRequest{Email: "alice@example.com", Secret: "guess"},
			setup: func(env *testEnv) {
				env.auth.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(models.Account{}, &service.TooManyAttemptsError{RetryAfter: 1500 * time.Millisecond})
			},
			wantStatus:     http.StatusTooManyRequests,
			wantCode:       app.CodeTooManyRequests,
			wantRetryAfter: "2",
		},
		{
			name: "token creation failed",
			body: models.LoginRequest{Email: "alice@example.com", Secret: "correct-horse"},
			setup: func(env *testEnv) {
				env.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(accountOf(userIdentity()), nil)
				env.auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).Return(models.Token{}, service.ErrTokenCreationFailed)
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   app.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			rec := env.do(t, http.MethodPost, "/api/auth/login", "", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			assert.Equal(t, tt.wantRetryAfter, rec.Header().Get("Retry-After"))
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}

func TestVerify(t *testing.T) {
	t.Run("returns current account and expiry", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(userToken, userIdentity())

		// role changed since the token was issued
		current := accountOf(userIdentity())
		current.Role = models.RoleAdmin
		env.auth.EXPECT().VerifyIdentity(gomock.Any(), userIdentity()).Return(current, nil)

		rec := env.do(t, http.MethodGet, "/api/auth/verify", userToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.VerifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.RoleAdmin, resp.Account.Role)
		assert.True(t, resp.ExpiresAt.Equal(tokenExpiry))
	})

	t.Run("inactive account still verifies", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(inactiveToken, inactiveIdentity())
		env.auth.EXPECT().VerifyIdentity(gomock.Any(), inactiveIdentity()).Return(accountOf(inactiveIdentity()), nil)

		rec := env.do(t, http.MethodGet, "/api/auth/verify", inactiveToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("account deleted out of band", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(userToken, userIdentity())
		env.auth.EXPECT().VerifyIdentity(gomock.Any(), gomock.Any()).Return(models.Account{}, service.ErrAccountGone)

		rec := env.do(t, http.MethodGet, "/api/auth/verify", userToken, nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, app.CodeUnauthenticated, decodeError(t, rec).Code)
	})

	t.Run("no token", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/auth/verify", "", nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, app.CodeUnauthenticated, decodeError(t, rec).Code)
	})
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, "1", retryAfterSeconds(&service.TooManyAttemptsError{}))
	assert.Equal(t, "1", retryAfterSeconds(&service.TooManyAttemptsError{RetryAfter: time.Second}))
	assert.Equal(t, "61", retryAfterSeconds(&service.TooManyAttemptsError{RetryAfter: 60*time.Second + time.Millisecond}))
}
