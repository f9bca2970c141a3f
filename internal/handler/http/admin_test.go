package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/models"
)

func TestListAccounts(t *testing.T) {
	t.Run("filters and pagination are passed through", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(adminToken, adminIdentity())
		env.account.EXPECT().
			ListAccounts(gomock.Any(), models.AccountFilter{Role: models.RoleUser, Status: models.StatusInactive, Limit: 10, Offset: 20}).
			Return([]models.Account{accountOf(inactiveIdentity())}, nil)

		rec := env.do(t, http.MethodGet, "/api/admin/accounts?role=user&status=inactive&limit=10&offset=20", adminToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.AccountsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Length)
		require.Len(t, resp.Accounts, 1)
		assert.Equal(t, models.StatusInactive, resp.Accounts[0].Status)
	})

	t.Run("empty page is an empty array", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(adminToken, adminIdentity())
		env.account.EXPECT().ListAccounts(gomock.Any(), models.AccountFilter{}).Return(nil, nil)

		rec := env.do(t, http.MethodGet, "/api/admin/accounts", adminToken, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"accounts":[],"length":0}`, rec.Body.String())
	})

	for _, query := range []string{"limit=-1", "offset=abc", "role=teacher", "status=banned", "limit=501"} {
		t.Run("rejects "+query, func(t *testing.T) {
			env := newTestEnv(t)
			env.expectToken(adminToken, adminIdentity())

			rec := env.do(t, http.MethodGet, "/api/admin/accounts?"+query, adminToken, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, app.CodeBadRequest, decodeError(t, rec).Code)
		})
	}

	t.Run("user is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectToken(userToken, userIdentity())

		rec := env.do(t, http.MethodGet, "/api/admin/accounts", userToken, nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin demoted after login is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		demoted := models.Identity{AccountID: adminID, Role: models.RoleUser, Status: models.StatusActive}
		env.expectStaleToken(adminToken, adminIdentity(), demoted)

		rec := env.do(t, http.MethodGet, "/api/admin/accounts", adminToken, nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, app.CodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("admin deactivated after login is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		deactivated := models.Identity{AccountID: adminID, Role: models.RoleAdmin, Status: models.StatusInactive}
		env.expectStaleToken(adminToken, adminIdentity(), deactivated)

		rec := env.do(t, http.MethodGet, "/api/admin/accounts", adminToken, nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       any
		setup      func(env *testEnv)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "promoted",
			target: otherID,
			body:   models.UpdateRoleRequest{Role: models.RoleAdmin},
			setup: func(env *testEnv) {
				promoted := accountOf(userIdentity())
				promoted.ID = otherID
				promoted.Role = models.RoleAdmin
				env.account.EXPECT().ChangeRole(gomock.Any(), adminIdentity(), otherID, models.RoleAdmin).Return(promoted, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid id",
			target:     "42",
			body:       models.UpdateRoleRequest{Role: models.RoleAdmin},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:   "unknown role",
			target: otherID,
			body:   models.UpdateRoleRequest{Role: "teacher"},
			setup: func(env *testEnv) {
				env.account.EXPECT().ChangeRole(gomock.Any(), gomock.Any(), otherID, models.Role("teacher")).
					Return(models.Account{}, service.ErrInvalidDataProvided)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   app.CodeBadRequest,
		},
		{
			name:   "unknown account",
			target: otherID,
			body:   models.UpdateRoleRequest{Role: models.RoleUser},
			setup: func(env *testEnv) {
				env.account.EXPECT().ChangeRole(gomock.Any(), gomock.Any(), otherID, models.RoleUser).
					Return(models.Account{}, fmt.Errorf("role change failed: %w", store.ErrAccountNotFound))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   app.CodeNotFound,
		},
		{
			name:   "own role",
			target: adminID,
			body:   models.UpdateRoleRequest{Role: models.RoleUser},
			setup: func(env *testEnv) {
				env.account.EXPECT().ChangeRole(gomock.Any(), gomock.Any(), adminID, models.RoleUser).
					Return(models.Account{}, service.ErrSelfModification)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   app.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.expectToken(adminToken, adminIdentity())
			if tt.setup != nil {
				tt.setup(env)
			}

			rec := env.do(t, http.MethodPatch, "/api/admin/accounts/"+tt.target+"/role", adminToken, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestChangeStatus(t *testing.T) {
	env := newTestEnv(t)
	env.expectToken(adminToken, adminIdentity())

	deactivated := accountOf(userIdentity())
	deactivated.ID = otherID
	deactivated.Status = models.StatusInactive
	env.account.EXPECT().ChangeStatus(gomock.Any(), adminIdentity(), otherID, models.StatusInactive).Return(deactivated, nil)

	rec := env.do(t, http.MethodPatch, "/api/admin/accounts/"+otherID+"/status", adminToken, models.UpdateStatusRequest{Status: models.StatusInactive})

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.PublicAccount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.StatusInactive, got.Status)
}

func TestChangeStatus_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	env.expectToken(adminToken, adminIdentity())

	rec := env.do(t, http.MethodPatch, "/api/admin/accounts/"+otherID+"/status", adminToken, "nope")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/accounts?limit=5", nil)

	filter, err := accountFilterFromQuery(req)

	require.NoError(t, err)
	assert.Equal(t, models.AccountFilter{Limit: 5}, filter)
}
