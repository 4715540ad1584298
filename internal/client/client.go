// File: internal/client/client.go

// Package client is the Go consumer of the camera backend REST API. It wraps
// net/http with bearer token attachment, a durable token store, and a
// refresh-and-retry protocol for expired access tokens.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/client/tokenstore"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every request unless overridden via WithTimeout.
const DefaultTimeout = 10 * time.Second

const refreshPath = "/auth/refresh"

// Client performs authenticated calls against the backend. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokenstore.Store
	logger     *zap.Logger

	// Coalesces concurrent refresh attempts triggered by simultaneous 401s.
	// Keyed by the stale refresh token so a new episode gets a new flight.
	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the API rooted at baseURL. Tokens are read from
// and written to the given store.
func New(baseURL string, tokens tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the underlying token store.
func (c *Client) Tokens() tokenstore.Store {
	return c.tokens
}

// do runs one request through the full protocol: attach bearer token, send,
// and on a 401 refresh the pair and resubmit exactly once. Any 401 episode
// that cannot be recovered clears the store and returns ErrSessionInvalid.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	pair, _ := c.tokens.Get()
	status, respBody, err := c.send(ctx, method, path, query, payload, pair.AccessToken)
	if err != nil {
		return err
	}

	// Only an authenticated request rejected with 401 means the access token
	// expired. An anonymous 401 (bad credentials on login) is a plain failure.
	if status == http.StatusUnauthorized && pair.AccessToken != "" {
		if pair.RefreshToken == "" {
			c.clearTokens()
			return fmt.Errorf("no refresh token: %w", ErrSessionInvalid)
		}
		if err := c.refresh(ctx, pair.RefreshToken); err != nil {
			c.clearTokens()
			return fmt.Errorf("token refresh failed: %w", ErrSessionInvalid)
		}

		// Re-read rather than reuse the refresh result: a logout that
		// raced the refresh wins, and the retry goes out unauthenticated.
		retryPair, _ := c.tokens.Get()
		status, respBody, err = c.send(ctx, method, path, query, payload, retryPair.AccessToken)
		if err != nil {
			return err
		}
		// A second 401 is surfaced like any other failure below.
	}

	if status < 200 || status > 299 {
		return newAPIError(status, respBody)
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// send performs a single HTTP exchange. Transport-level failures (network
// errors, timeouts) come back as errors; HTTP statuses do not.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, bearer string) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// refresh exchanges the refresh token for a new pair and persists it. A
// single flight serves every caller holding the same stale token.
func (c *Client) refresh(ctx context.Context, staleRefresh string) error {
	_, err, _ := c.refreshGroup.Do(staleRefresh, func() (interface{}, error) {
		c.logger.Debug("Refreshing access token")
		status, respBody, err := c.send(ctx, http.MethodPost, refreshPath, nil, nil, staleRefresh)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, newAPIError(status, respBody)
		}
		var resp auth.LoginResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, fmt.Errorf("decode refresh response: %w", err)
		}
		if err := c.tokens.Set(tokenstore.Pair{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
		}); err != nil {
			return nil, fmt.Errorf("persist refreshed tokens: %w", err)
		}
		return nil, nil
	})
	return err
}

func (c *Client) clearTokens() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("Failed to clear token store", zap.Error(err))
	}
}
