package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-study-platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	lastActive := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{
			name:     "public account",
			data:     models.PublicAccount{ID: "acc-1", Name: "Ann", Email: "ann@uni.edu", Role: models.RoleUser, Status: models.StatusActive, LastActiveAt: &lastActive},
			status:   http.StatusOK,
			wantBody: `{"id":"acc-1","name":"Ann","email":"ann@uni.edu","role":"user","status":"active","last_active_at":"2026-03-01T10:00:00Z"}`,
		},
		{
			name:     "created account without activity",
			data:     models.PublicAccount{ID: "acc-2", Name: "Bob", Email: "bob@uni.edu", Role: models.RoleUser, Status: models.StatusActive},
			status:   http.StatusCreated,
			wantBody: `{"id":"acc-2","name":"Bob","email":"bob@uni.edu","role":"user","status":"active"}`,
		},
		{
			name:     "empty listing",
			data:     models.AccountsResponse{Accounts: []models.PublicAccount{}},
			status:   http.StatusOK,
			wantBody: `{"accounts":[],"length":0}`,
		},
		{
			name:     "nil",
			data:     nil,
			status:   http.StatusOK,
			wantBody: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_UnsupportedValue(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, map[string]any{"callback": func() {}}, http.StatusOK)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusUnauthorized, "token_expired", "token expired")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, models.ErrorResponse{Code: "token_expired", Message: "token expired"}, body)
}
