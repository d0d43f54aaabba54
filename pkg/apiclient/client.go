package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL matches the backend's development default.
const DefaultBaseURL = "http://localhost:8000"

// TokenSource supplies the current bearer token. An empty string means no
// credential is attached.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function into a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource injects the credential provider used on authenticated calls.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// WithUnauthorizedHandler registers the callback invoked when the server
// answers 401 on a call that did not opt out. The session store subscribes
// here so the transport never imports it.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// Client is the single HTTP entry point for the ComunaVision API. One
// attempt per call: no retries, no timeouts beyond the transport's own, and
// cancellation only through the caller's context.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// New constructs a Client. Trailing slashes on the base URL are trimmed so
// path joining stays predictable; an empty base falls back to DefaultBaseURL.
func New(baseURL string, options ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseURL reports the configured base, without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Options describe one request. Body is JSON-serialized unless Form is set,
// in which case the form encoding is passed through untouched.
type Options struct {
	Body    any
	Form    url.Values
	Headers map[string]string

	// NoAuth skips the bearer header, used by the login exchange.
	NoAuth bool

	// KeepSessionOn401 suppresses the unauthorized handler for this call so
	// an expired-session failure surfaces inline (export downloads).
	KeepSessionOn401 bool
}

// Result holds a successful response body. Materialise it with JSON, Text,
// or Bytes depending on what the caller needs.
type Result struct {
	Status int
	Header http.Header
	body   []byte
}

// JSON decodes the body into v. Bodies that do not declare a JSON content
// type are still attempted, mirroring the lenient parse the admin UI relies
// on for older backend deployments.
func (r *Result) JSON(v any) error {
	if len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Result) Text() string { return string(r.body) }

// Bytes returns the raw body, the blob materialisation used by exports.
func (r *Result) Bytes() []byte { return r.body }

// Filename extracts the attachment name from Content-Disposition, empty when
// the server did not send one.
func (r *Result) Filename() string {
	cd := r.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// Do performs a single request. Non-2xx statuses return a *Error; a 401
// additionally triggers the unauthorized handler unless the call opted out.
func (c *Client) Do(ctx context.Context, method, path string, opts Options) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("apiclient: context is required")
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !opts.NoAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && !opts.KeepSessionOn401 && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, newError(resp.StatusCode, resp.Status, data)
	}

	return &Result{Status: resp.StatusCode, Header: resp.Header, body: data}, nil
}

// GetJSON fetches path and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	res, err := c.Do(ctx, http.MethodGet, path, Options{})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.JSON(out)
}

// PostJSON sends body as JSON and decodes the response into out when non-nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	res, err := c.Do(ctx, http.MethodPost, path, Options{Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.JSON(out)
}

// PutJSON sends body as JSON via PUT.
func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	res, err := c.Do(ctx, http.MethodPut, path, Options{Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.JSON(out)
}

// Delete issues a DELETE and discards the body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, Options{})
	return err
}

func (c *Client) buildURL(path string) string {
	clean := strings.TrimSpace(path)
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	return c.baseURL + clean
}

func encodeBody(opts Options) (io.Reader, string, error) {
	if opts.Form != nil {
		return strings.NewReader(opts.Form.Encode()), "application/x-www-form-urlencoded", nil
	}
	if opts.Body == nil {
		return nil, "", nil
	}
	payload, err := json.Marshal(opts.Body)
	if err != nil {
		return nil, "", fmt.Errorf("apiclient: encode request body: %w", err)
	}
	return bytes.NewReader(payload), "application/json", nil
}
