// Package webhook forwards newsletter and contact form submissions to a fixed HTTP
// endpoint. A submission is attempted exactly once.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 8 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

var (
	// ErrRejected is returned when the endpoint answers with a non-2xx status.
	ErrRejected = errors.New("webhook: submission rejected")
	// ErrUnavailable is returned when the endpoint cannot be reached.
	ErrUnavailable = errors.New("webhook: endpoint unavailable")
)

// Journal status values.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Entry is one journaled submission attempt.
type Entry struct {
	ID         string
	Type       Type
	Email      string
	Status     string
	HTTPStatus int
	Error      string
	CreatedAt  time.Time
}

// Journal records submission attempts for operators.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// Result describes a delivered submission.
type Result struct {
	ID         string
	HTTPStatus int
	DryRun     bool
}

// Client posts submissions to the webhook endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
	journal  Journal
	newID    func() string
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// WithJournal records every attempt in j.
func WithJournal(j Journal) Option { return func(c *Client) { c.journal = j } }

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(fn func() string) Option { return func(c *Client) { c.newID = fn } }

// NewClient constructs a client for endpoint. When endpoint is empty the client validates
// and journals submissions but does not send them.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{Timeout: defaultTimeout},
		newID:    func() string { return ulid.Make().String() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit validates s and posts it as JSON. Invalid submissions return ValidationErrors
// without any network call. A non-2xx answer wraps ErrRejected; transport failures wrap
// ErrUnavailable. There is no retry.
func (c *Client) Submit(ctx context.Context, s Submission) (Result, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	id := c.newID()
	log := c.log.With(zap.String("submissionId", id), zap.String("type", string(s.Type)))

	if c.endpoint == "" {
		log.Info("webhook endpoint not configured; submission not sent")
		c.record(ctx, Entry{ID: id, Type: s.Type, Email: s.Email, Status: StatusSkipped})
		return Result{ID: id, DryRun: true}, nil
	}

	status, err := c.post(ctx, id, s)
	entry := Entry{ID: id, Type: s.Type, Email: s.Email, Status: StatusSent, HTTPStatus: status}
	if err != nil {
		entry.Status = StatusFailed
		entry.Error = err.Error()
		log.Warn("webhook submission failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Info("webhook submission sent", zap.Int("status", status))
	}
	c.record(ctx, entry)
	return Result{ID: id, HTTPStatus: status}, err
}

func (c *Client) post(ctx context.Context, id string, s Submission) (int, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(idempotencyHeader, id)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, drainError(resp.Body))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

// record journals e. Journal failures are logged and otherwise ignored; the context is
// detached so a cancelled request still leaves a trace.
func (c *Client) record(ctx context.Context, e Entry) {
	if c.journal == nil {
		return
	}
	e.CreatedAt = c.now().UTC()
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := c.journal.Record(rctx, e); err != nil {
		c.log.Error("journal submission", zap.String("submissionId", e.ID), zap.Error(err))
	}
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
