// Package rest implements the remote contracts of pkg/core over a JSON HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/notely/pkg/core"
)

const (
	// DefaultTimeout bounds a single request when no HTTPClient is supplied.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request UUID for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// HTTPClient is the subset of *http.Client used by the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the transport configuration.
type Config struct {
	BaseURL    string
	Tokens     core.TokenStore // Source of the bearer token; may be nil.
	HTTPClient HTTPClient      // Defaults to an *http.Client with Timeout.
	Timeout    time.Duration
	UserAgent  string
	Logger     *slog.Logger
}

// Client issues requests against the users, sessions, notes and tags resources.
type Client struct {
	base   *url.URL
	config Config
	http   HTTPClient

	mu            sync.Mutex
	requests      int64
	failures      int64
	lastStatus    int
	lastRequestID string
}

// New creates a transport rooted at config.BaseURL.
func New(config Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", config.BaseURL)
	}

	hc := config.HTTPClient
	if hc == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:   base,
		config: config,
		http:   hc,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Accounts returns the users and sessions API.
func (c *Client) Accounts() *AccountAPI {
	return &AccountAPI{client: c}
}

// Notes returns the notes API.
func (c *Client) Notes() *NoteAPI {
	return &NoteAPI{client: c}
}

// Tags returns the tags API.
func (c *Client) Tags() *TagAPI {
	return &TagAPI{client: c}
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = c.base.Path + "/" + strings.Join(segments, "/")
	u.RawPath = c.base.EscapedPath() + "/" + strings.Join(escaped, "/")
	return u.String()
}

// do sends a request and returns the raw response body of a 2xx reply.
// Failures are returned as *core.RemoteError.
func (c *Client) do(ctx context.Context, method string, body any, segments ...string) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	target := c.endpoint(segments...)
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if c.config.Tokens != nil {
		token, err := c.config.Tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(requestID, 0, false)
		if c.config.Logger != nil {
			c.config.Logger.Debug("request failed", "method", method, "url", target, "request_id", requestID, "error", err)
		}
		return nil, &core.RemoteError{Err: err}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.record(requestID, resp.StatusCode, ok)
	if c.config.Logger != nil {
		c.config.Logger.Debug("request completed",
			"method", method,
			"url", target,
			"status", resp.StatusCode,
			"request_id", requestID,
			"duration", time.Since(start),
		)
	}

	if !ok {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &core.RemoteError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.RemoteError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return raw, nil
}

func (c *Client) record(requestID string, status int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	if !ok {
		c.failures++
	}
	c.lastStatus = status
	c.lastRequestID = requestID
}

// serverMessage extracts the "message" field of an error body, if any.
func serverMessage(raw []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Message.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// decodeEntity decodes either an {"<key>": {...}} envelope or a bare object.
func decodeEntity(raw []byte, key string, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '{' {
				raw = inner
			}
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// decodeList decodes a JSON array. Any other body yields an empty list.
func decodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeFailure reports a 2xx body that could not be decoded.
func decodeFailure(err error) error {
	return &core.RemoteError{Status: http.StatusOK, Err: err}
}
