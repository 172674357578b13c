package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout for API calls.
	// Downloads use a separate client bounded by context instead.
	DefaultTimeout = 30 * time.Second
)

// EmptyResult marks a successful response that carried no body, such
// as 204 No Content. It lets callers tell "the call succeeded and said
// nothing" apart from a decode failure.
var EmptyResult = json.RawMessage("null")

// IsEmpty reports whether a result is the empty-success marker.
func IsEmpty(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, EmptyResult)
}

// Ensure Client implements the GraphClient port.
var _ driven.GraphClient = (*Client)(nil)

// Client executes requests against the Microsoft Graph API. Requests
// are authenticated through the token manager, throttled by the rate
// limiter, and attempted exactly once: a failure surfaces to the
// caller rather than triggering a hidden retry or re-auth.
type Client struct {
	cfg     Config
	tokens  driven.TokenManager
	limiter *RateLimiter

	httpc   *http.Client
	streamc *http.Client
}

// NewClient creates a Graph client that authenticates through the
// given token manager.
func NewClient(cfg Config, tokens driven.TokenManager) *Client {
	c := &Client{
		cfg:     cfg.WithDefaults(),
		tokens:  tokens,
		limiter: NewRateLimiter(),
	}

	ts := &managerTokenSource{tokens: tokens}
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout
	c.httpc = tc
	c.streamc = &http.Client{Transport: tc.Transport}

	return c
}

// NewClientWithHTTPClient creates a Graph client with a custom
// http.Client. The caller's client is responsible for authentication.
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	return &Client{
		cfg:     cfg.WithDefaults(),
		limiter: NewRateLimiter(),
		httpc:   httpClient,
		streamc: httpClient,
	}
}

// Config returns the client's resolved configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// Execute performs a single request and returns the response body.
// Non-2xx responses become an *APIError; a throttled response becomes
// a *RateLimitError. A 2xx response with no body yields EmptyResult.
func (c *Client) Execute(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.cfg.ResolveURL(path)
	req, err := c.newRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	logger.Debug("graph: %s %s", method, url)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if err := c.limiter.CheckThrottled(resp); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, url, raw)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return EmptyResult, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("decode response from %s: not valid JSON", url)
	}
	return json.RawMessage(trimmed), nil
}

// Get fetches a single resource.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodGet, path, nil)
}

// GetJSON fetches a resource and decodes it into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if IsEmpty(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Post sends a JSON body and returns the response.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodPost, path, body)
}

// Patch applies a partial update.
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodPatch, path, body)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Execute(ctx, http.MethodDelete, path, nil)
	return err
}

// Download streams raw content from a URL. Content endpoints redirect
// to a pre-authorized location, so the stream is bounded by ctx rather
// than the API timeout. The caller must close the reader.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resolved := c.cfg.ResolveURL(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	logger.Debug("graph: GET %s (stream)", resolved)
	resp, err := c.streamc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", resolved, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, resolved, raw)
	}
	return resp.Body, nil
}

// newRequest builds a request with the standard Graph headers. Every
// request carries a fresh client-request-id so failures can be
// correlated with server-side logs.
func (c *Client) newRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		reader = bytes.NewReader(b)
		contentType = "application/json"
	case []byte:
		reader = bytes.NewReader(b)
		contentType = "application/json"
	case io.Reader:
		reader = b
		contentType = "application/octet-stream"
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// newAPIError builds an APIError from a response body, pulling the
// code and message out of the Graph error envelope when present.
func newAPIError(status int, url string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Body:       string(body),
		URL:        url,
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
