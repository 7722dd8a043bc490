// Package api talks to the remote marketplace REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// DefaultTimeout bounds how long one UI action can wait on the API.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 1 << 20

// TokenSource supplies the bearer token of the current session, or "" when
// anonymous.
type TokenSource interface {
	Token() string
}

// Client wraps every outbound call: bearer header, timeout, and error
// normalization. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tokens     TokenSource
	logger     *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client for baseURL, e.g. "https://host/api".
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout: DefaultTimeout,
		tokens:  tokens,
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends body (JSON-encoded when non-nil) and decodes a successful
// response into out (when non-nil). Empty successful responses leave out
// untouched.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debugw("api request", "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 || out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return c.transportError(ctx, method, endpoint, err)
			}
			return domainErrorf("malformed response from %s %s", method, endpoint)
		}
		return nil
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil && ctx.Err() != nil {
		return c.transportError(ctx, method, endpoint, readErr)
	}
	apiErr := &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	c.logger.Warnw("api error", "method", method, "url", url, "status", resp.StatusCode, "message", apiErr.Message)
	return apiErr
}

func (c *Client) transportError(ctx context.Context, method, endpoint string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Warnw("api timeout", "method", method, "endpoint", endpoint, "after", c.timeout)
		return &TimeoutError{Method: method, Endpoint: endpoint, After: c.timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Method: method, Endpoint: endpoint, After: c.timeout}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	c.logger.Warnw("api unreachable", "method", method, "endpoint", endpoint, "error", err)
	return &NetworkError{Method: method, Endpoint: endpoint, Err: err}
}

// errorMessage picks message, then error, then errors from a JSON body,
// falls back to the raw text, then to a generic status line.
func errorMessage(status int, raw []byte) string {
	generic := fmt.Sprintf("HTTP %d", status)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		for _, key := range []string{"message", "error", "errors"} {
			if msg := fieldText(fields[key]); msg != "" {
				return msg
			}
		}
		return generic
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return generic
}

func fieldText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
