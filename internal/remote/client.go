// Package remote is the single place the gateway performs HTTP calls to the
// platform's backend services. It attaches bearer-token auth, enforces a
// bounded timeout, and translates every failure into a classified CallError.
//
// The adapter never retries: retry policy belongs to the caller. The
// aggregation layer substitutes fallback data instead of retrying, and the
// cart mirror simply pushes a fresh snapshot on the next mutation.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout bounds a single upstream call. Dashboards must render
	// quickly even when a backend is down, so this stays in single-digit
	// seconds.
	DefaultTimeout = 5 * time.Second

	maxResponseBytes int64 = 4 << 20
)

// Config describes one upstream service endpoint.
type Config struct {
	// Service names the upstream in errors and logs, e.g. "order-service".
	Service string
	// BaseURL is the service root, e.g. "http://localhost:8083/api/v1".
	BaseURL string
	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client calls a single upstream service. It holds no mutable state; one
// Client is safe for concurrent use by any number of goroutines.
type Client struct {
	service string
	baseURL string
	http    *http.Client
}

// Option configures optional Client behaviour.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Used by tests and by
// callers that need custom transport settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTracerProvider instruments the outbound transport with the given
// tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = otelhttp.NewTransport(base, otelhttp.WithTracerProvider(tp))
	}
}

// NewClient builds a Client for one upstream service.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.Errorf("%s: base URL is required", cfg.Service)
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrapf(err, "%s: parse base URL", cfg.Service)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		service: cfg.Service,
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Service returns the upstream service name this client targets.
func (c *Client) Service() string {
	return c.service
}

// Get issues a GET and decodes the JSON response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE and decodes the JSON response into out (may be nil).
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Ping reports whether the upstream is reachable at all. Any HTTP response,
// including 401 or 404, counts as reachable; only transport-level failure is
// reported. Used by readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/", nil, nil)
	if err != nil && IsUnreachable(err) {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "%s: marshal %s %s body", c.service, method, path)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reqBody)
	if err != nil {
		return errors.Wrapf(err, "%s: build %s %s request", c.service, method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Unauthenticated endpoints exist (restaurant browsing, login), so an
	// absent token does not block the call; the upstream decides with a 401.
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &CallError{
			Kind:    KindUnreachable,
			Service: c.service,
			Method:  method,
			Path:    path,
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &CallError{
			Kind:    KindUnreachable,
			Service: c.service,
			Method:  method,
			Path:    path,
			Err:     errors.Wrap(err, "read response body"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &CallError{
			Kind:    classifyStatus(resp.StatusCode),
			Service: c.service,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Err:     errors.Errorf("upstream responded %s", strings.TrimSpace(truncate(raw, 256))),
		}
	}

	if out == nil {
		return nil
	}
	if err := decodeBody(raw, out); err != nil {
		return &CallError{
			Kind:    KindInvalidResponse,
			Service: c.service,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Err:     err,
		}
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	if path == "" || path == "/" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// decodeBody unmarshals a response that is either the payload itself or the
// payload wrapped in a {"data": ...} envelope. The backend services are not
// consistent about this, and the gateway accepts both.
func decodeBody(raw []byte, out any) error {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && len(probe.Data) > 0 && string(probe.Data) != "null" {
		raw = probe.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	default:
		return KindServerError
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
