// Package testutil starts the site in-process for HTTP-level tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"smakrik.se/web/internal/httpserver"
	"smakrik.se/web/internal/webhook"
)

// BaseURL is the public base URL used by test servers.
const BaseURL = "https://smakrik.se"

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithWebhook wires the webhook client used by the forms.
func WithWebhook(c *webhook.Client) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Webhook = c
	}
}

// WithConfig applies an arbitrary change to the configuration.
func WithConfig(fn func(*httpserver.Config)) ServerOption {
	return func(cfg *httpserver.Config) { fn(cfg) }
}

// NewServer constructs an httptest server running the site with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:           ":0",
		BaseURL:           BaseURL,
		SessionSigningKey: []byte("test-signing-key-0123456789abcdef"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// Browser is an HTTP client that keeps cookies and does not follow redirects.
type Browser struct {
	t      testing.TB
	base   string
	client *http.Client
}

// NewBrowser returns a cookie-keeping client for ts.
func NewBrowser(t testing.TB, ts *httptest.Server) *Browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := *ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &Browser{t: t, base: ts.URL, client: &client}
}

// Response is a fully read HTTP response.
type Response struct {
	*http.Response
	Body []byte
}

// Do sends req and reads the whole body.
func (b *Browser) Do(req *http.Request) Response {
	b.t.Helper()
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}
	return Response{Response: resp, Body: body}
}

// Get fetches path with optional header pairs.
func (b *Browser) Get(path string, header ...string) Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return b.Do(req)
}

// PostForm posts form to path with optional header pairs.
func (b *Browser) PostForm(path string, form url.Values, header ...string) Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return b.Do(req)
}

// CSRFToken loads the home page and returns the token rendered into it.
func (b *Browser) CSRFToken() string {
	b.t.Helper()
	resp := b.Get("/")
	doc := ParseHTML(b.t, resp.Body)
	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok || token == "" {
		b.t.Fatalf("csrf token not found")
	}
	return token
}
