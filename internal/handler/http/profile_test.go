package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/models"
)

func TestGetProfile(t *testing.T) {
	t.Run("user reads own profile", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(userToken, userIdentity())
		env.account.EXPECT().GetAccount(gomock.Any(), userID).Return(accountOf(userIdentity()), nil)

		rec := env.do(t, http.MethodGet, "/api/me", userToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.PublicAccount
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, accountOf(userIdentity()).Public(), got)
	})

	t.Run("admin demoted after login reads own profile", func(t *testing.T) {
		env := newTestEnv(t)
		demoted := models.Identity{AccountID: adminID, Role: models.RoleUser, Status: models.StatusActive}
		env.expectStaleToken(adminToken, adminIdentity(), demoted)
		env.account.EXPECT().GetAccount(gomock.Any(), adminID).Return(accountOf(demoted), nil)

		rec := env.do(t, http.MethodGet, "/api/me", adminToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("account gone", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(userToken, userIdentity())
		env.account.EXPECT().GetAccount(gomock.Any(), userID).
			Return(models.Account{}, fmt.Errorf("account search by id failed: %w", store.ErrAccountNotFound))

		rec := env.do(t, http.MethodGet, "/api/me", userToken, nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, app.CodeUnauthenticated, decodeError(t, rec).Code)
	})

	t.Run("admin is not a user", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(adminToken, adminIdentity())

		rec := env.do(t, http.MethodGet, "/api/me", adminToken, nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, app.CodeForbidden, decodeError(t, rec).Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(env *testEnv)
		wantStatus int
		wantCode   string
	}{
		{
			name: "renamed",
			body: models.UpdateProfileRequest{Name: "Alice Cooper"},
			setup: func(env *testEnv) {
				updated := accountOf(userIdentity())
				updated.Name = "Alice Cooper"
				env.account.EXPECT().UpdateProfile(gomock.Any(), userID, "Alice Cooper").Return(updated, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty name",
			body:       models.UpdateProfileRequest{Name: "   "},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:       "name too long",
			body:       models.UpdateProfileRequest{Name: strings.Repeat("a", 101)},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.expectToken(userToken, userIdentity())
			if tt.setup != nil {
				tt.setup(env)
			}

			rec := env.do(t, http.MethodPatch, "/api/me", userToken, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestUpdateProfile_InactiveIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.expectToken(inactiveToken, inactiveIdentity())

	rec := env.do(t, http.MethodPatch, "/api/me", inactiveToken, models.UpdateProfileRequest{Name: "Bob"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, app.CodeForbidden, decodeError(t, rec).Code)
}
