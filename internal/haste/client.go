package haste

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"posthaste/pkg/apperr"
	"posthaste/pkg/httputil"
)

const (
	DefaultBaseURL = "https://hastebin.com"

	documentsPath   = "/documents"
	sharePath       = "/share/"
	contentType     = "text/plain"
	maxResponseSize = 1 << 20
	maxDetailLength = 200
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	timeout    time.Duration
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Document is a stored paste as reported by the server.
type Document struct {
	Key  string
	Body []byte
}

type documentResponse struct {
	Key string `json:"key"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = httputil.DefaultTimeout
	}

	return &Client{
		httpClient: httputil.NewClient(timeout, opts.Token),
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      opts.Token,
		timeout:    timeout,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Endpoint() string {
	return c.baseURL + documentsPath
}

func (c *Client) ShareURL(key string) string {
	return c.baseURL + sharePath + key
}

// Headers returns the headers sent with every upload, including the bearer
// token when one is configured.
func (c *Client) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}

func (c *Client) Upload(ctx context.Context, text []byte) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.connectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.connectionError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperr.NewUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.NewHTTPError(resp.StatusCode, errorDetail(body))
	}

	var doc documentResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperr.NewMalformedResponse("response is not valid JSON", err)
	}

	key := strings.TrimSpace(doc.Key)
	if key == "" {
		return nil, apperr.NewMalformedResponse(`response has no "key" field`, nil)
	}

	return &Document{Key: key, Body: body}, nil
}

func (c *Client) connectionError(err error) error {
	if httputil.IsTimeout(err) {
		return apperr.NewConnectionError(
			fmt.Sprintf("Error: Connection timeout after %s waiting for %s", c.timeout, c.baseURL),
			err,
		)
	}
	if errors.Is(err, context.Canceled) {
		return apperr.NewConnectionError("Error: Upload cancelled", err)
	}
	return apperr.NewConnectionError(
		fmt.Sprintf("Error: Failed to connect to %s: %s", c.baseURL, httputil.Reason(err)),
		err,
	)
}

func errorDetail(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}

	detail := strings.TrimSpace(string(body))
	if r := []rune(detail); len(r) > maxDetailLength {
		detail = string(r[:maxDetailLength]) + "..."
	}
	return detail
}
