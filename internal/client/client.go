// ABOUTME: HTTP client for the blog platform REST API
// ABOUTME: Every call passes through one pipeline that attaches the bearer token and normalizes failures

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout
const DefaultTimeout = 30 * time.Second

// Credentials supplies the bearer token for outgoing requests and receives the
// blanket 401 notification for requests sent with that token. The session
// manager implements it.
type Credentials interface {
	Token() string
	Unauthorized()
}

// Client is the API client for the blog platform
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	creds Credentials
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. The logging transport is
// not installed on a caller-provided client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCredentials sets the token source at construction time
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: &loggingTransport{next: http.DefaultTransport},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredentials installs the token source. The session manager is built on top
// of the client, so it is attached after both exist.
func (c *Client) SetCredentials(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

func (c *Client) credentials() Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	// token overrides the credential source when non-empty
	token string
}

// do sends the request and decodes a successful response into out (which may be nil)
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var reqBody io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	creds := c.credentials()
	token := r.token
	if token == "" && creds != nil {
		token = creds.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := c.handleErrorResponse(resp)
		// A rejected override token that the session no longer holds must not
		// clear the session that replaced it
		if creds != nil && (r.token == "" || r.token == creds.Token()) {
			creds.Unauthorized()
		}
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from API: %w", err)
	}
	return nil
}

// handleRequestError converts transport and context errors to user-friendly API errors
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return &APIError{Message: "request canceled", Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &APIError{Message: "request timed out", Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &APIError{Message: "request timed out", Err: err}
	}
	return &APIError{Message: fmt.Sprintf("cannot connect to API at %s", c.baseURL), Err: err}
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Message = errResp.Message
		if apiErr.Message == "" {
			apiErr.Message = errResp.Error
		}
		apiErr.FieldErrors = errResp.FieldErrors
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("API returned status %d", resp.StatusCode)
	}
	return apiErr
}
