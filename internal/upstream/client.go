// ABOUTME: HTTP client for the Home Assistant REST API with uniform error results
// ABOUTME: Normalizes transport failures and non-2xx statuses into a typed Error

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Error describes a failed upstream call. StatusCode carries the status Home
// Assistant reported, or http.StatusServiceUnavailable when the instance
// could not be reached at all (DNS failure, connection refused, timeout).
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("home assistant api error: status %d: %s", e.StatusCode, e.Message)
}

// Unreachable reports whether the error represents a transport-level failure
// rather than a status Home Assistant itself returned.
func (e *Error) Unreachable() bool {
	return e.StatusCode == http.StatusServiceUnavailable && e.Message == unreachableMessage
}

const unreachableMessage = "Cannot reach Home Assistant"

// Client is a reusable HTTP client for the Home Assistant REST API. One
// Client is created at process start and shared by all requests; it holds no
// per-request state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New creates a Client for the Home Assistant instance at baseURL. Every call
// is bounded by the given timeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// BaseURL returns the configured Home Assistant base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ValidateToken checks a bearer token against the API root endpoint. A nil
// return means Home Assistant accepted the token. The distinction between an
// invalid token and an unreachable instance is preserved in the returned
// *Error's StatusCode.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/", nil)
	if err != nil {
		return fmt.Errorf("building validation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("token validation request failed", "error", err)
		return &Error{StatusCode: http.StatusServiceUnavailable, Message: unreachableMessage}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &Error{StatusCode: http.StatusUnauthorized, Message: "Invalid Home Assistant token"}
	}
	return nil
}

// Get issues a GET request against the API and decodes the response.
func (c *Client) Get(ctx context.Context, path, token string) (any, error) {
	return c.call(ctx, http.MethodGet, path, token, nil)
}

// Post issues a POST request with a JSON body against the API and decodes the
// response.
func (c *Client) Post(ctx context.Context, path, token string, body any) (any, error) {
	return c.call(ctx, http.MethodPost, path, token, body)
}

// call performs one HTTP round trip. Non-2xx responses become an *Error
// carrying the upstream status code and response body; transport failures
// become an *Error with a fixed 503 status. Successful responses are decoded
// as JSON when possible, otherwise the raw text body is returned unchanged
// (the template endpoint, for one, responds with plain text).
func (c *Client) call(ctx context.Context, method, path, token string, body any) (any, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("home assistant request failed", "method", method, "path", path, "error", err)
		return nil, &Error{StatusCode: http.StatusServiceUnavailable, Message: unreachableMessage}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("home assistant returned error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		// Not JSON: return the raw text body unchanged.
		return string(respBody), nil
	}
	return decoded, nil
}
