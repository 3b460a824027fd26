package httputil

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const DefaultTimeout = 5 * time.Second

// NewClient returns an http.Client bounded by timeout. A non-empty token is
// sent as "Authorization: Bearer <token>" on every request.
func NewClient(timeout time.Duration, token string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token,
				TokenType:   "Bearer",
			}),
			Base: transport,
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
