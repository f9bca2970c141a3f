package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientUserAgent identifies the terminal client in server logs.
const ClientUserAgent = "study-platform-client"

// HTTPClient wraps resty.Client for calls to the study platform API.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client bound to baseURL that speaks JSON.
// A zero timeout leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ClientUserAgent)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
