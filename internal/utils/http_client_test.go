package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_DefaultHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, ClientUserAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Second)
	resp, err := client.R().Get("/api/version")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestNewHTTPClient_Timeout(t *testing.T) {
	assert.Equal(t, 2*time.Second, NewHTTPClient("http://localhost", 2*time.Second).GetClient().Timeout)
	assert.Zero(t, NewHTTPClient("http://localhost", 0).GetClient().Timeout)
}

func TestNewHTTPClient_Independent(t *testing.T) {
	first := NewHTTPClient("http://a.local", 0)
	second := NewHTTPClient("http://b.local", 0)

	assert.NotSame(t, first.Client, second.Client)
	assert.Equal(t, "http://a.local", first.BaseURL)
	assert.Equal(t, "http://b.local", second.BaseURL)
}
