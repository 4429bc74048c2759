// Package fxclient is the Go client for the AudioFX processing API. It
// drives the full job lifecycle: upload a source file, submit an effect
// job, poll it to a terminal outcome, and exchange the outcome (or a
// history entry) for a short-lived download URL.
package fxclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultPollInterval = 1 * time.Second
	defaultPollMaxWait  = 5 * time.Minute
)

// Client talks to one AudioFX API server. The bearer credential is an
// explicit value owned by the client instance, set on login/register and
// cleared on logout; there is no process-wide token.
//
// Methods are safe for concurrent use, but job and file handles follow
// last-write-wins semantics on the server side: callers that need strict
// single-flight submission must serialize themselves.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	pollInterval time.Duration
	pollMaxWait  time.Duration

	mu         sync.Mutex
	credential string
	history    []HistoryEntry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCredential sets an initial bearer credential.
func WithCredential(token string) Option {
	return func(c *Client) { c.credential = token }
}

// WithPollInterval overrides the fixed delay between status queries.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithPollMaxWait overrides the poll loop deadline. Zero disables the
// guard and the loop runs until the context is cancelled.
func WithPollMaxWait(d time.Duration) Option {
	return func(c *Client) { c.pollMaxWait = d }
}

// New creates a client for the given base URL, e.g. "https://fx.example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL:      strings.TrimRight(baseURL, "/"),
		pollInterval: defaultPollInterval,
		pollMaxWait:  defaultPollMaxWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredential installs a bearer credential for authenticated calls.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = token
}

// Logout clears the stored credential.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = ""
}

// Authenticated reports whether a credential is present.
func (c *Client) Authenticated() bool {
	return c.getCredential() != ""
}

func (c *Client) getCredential() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential
}

// apiError is the server's error body shape.
type apiError struct {
	Detail string `json:"detail"`
}

// httpError carries the status code and server-reported detail of a
// non-2xx response.
type httpError struct {
	StatusCode int
	Detail     string
}

func (e *httpError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// postJSON sends a POST with JSON body and parses the JSON response.
func (c *Client) postJSON(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doRequest(req, result)
}

// getJSON sends a GET and parses the JSON response.
func (c *Client) getJSON(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, result)
}

// doRequest executes a request, attaching the credential when present,
// and decodes the response into result.
func (c *Client) doRequest(req *http.Request, result interface{}) error {
	if cred := c.getCredential(); cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		_ = json.Unmarshal(respBody, &ae)
		return &httpError{StatusCode: resp.StatusCode, Detail: ae.Detail}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
