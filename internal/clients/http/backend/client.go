package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/tourbook/internal/session"
)

const tracerName = "github.com/Apurer/tourbook/internal/clients/http/backend"

// DefaultBaseURL is the local development origin used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// Requester is what the typed domain services need from the client.
type Requester interface {
	Do(ctx context.Context, req *Request, out any) (*Response, error)
}

// Client sends requests to the backend with the bearer token attached and a
// single silent refresh-and-retry on 401.
type Client struct {
	baseURL    string
	store      *session.Store
	httpClient *http.Client
	userAgent  string
	refresh    string
	hook       StateHook
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    clientMetrics

	refresher *Refresher
	handler   Handler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying client. A cookie jar is installed
// when hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTracer sets the tracer used for per-request spans.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Client) { c.tracer = tr }
}

// WithMeter enables request and refresh counters.
func WithMeter(m metric.Meter) Option {
	return func(c *Client) { c.metrics = newClientMetrics(m) }
}

// WithStateHook observes request state transitions.
func WithStateHook(h StateHook) Option {
	return func(c *Client) { c.hook = h }
}

// WithRefreshPath overrides DefaultRefreshPath.
func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refresh = strings.TrimSpace(path) }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New builds a client for baseURL that reads and updates store.
func New(baseURL string, store *session.Store, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if store == nil {
		return nil, errors.New("backend client requires a session store")
	}
	c := &Client{
		baseURL: baseURL,
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	var err error
	if c.httpClient == nil {
		c.httpClient, err = NewHTTPClient(DefaultTimeout)
	} else {
		c.httpClient, err = withJar(c.httpClient)
	}
	if err != nil {
		return nil, err
	}

	t := &transport{baseURL: c.baseURL, httpClient: c.httpClient, userAgent: c.userAgent}
	c.refresher = newRefresher(store, t.send, c.refresh, c.logger, c.metrics)
	c.handler = Chain(t.send,
		BearerToken(store),
		RefreshOnUnauthorized(c.refresher, c.hook),
		c.announce,
	)
	return c, nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the session store the client reads tokens from.
func (c *Client) Store() *session.Store {
	return c.store
}

// Refresher exposes the refresh flow for callers that restore a session on
// start-up.
func (c *Client) Refresher() *Refresher {
	return c.refresher
}

// Do sends req and decodes a successful JSON body into out (which may be nil).
// The caller's descriptor is not modified.
func (c *Client) Do(ctx context.Context, req *Request, out any) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	r := req.clone()
	r.Attempt = 1
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	ctx = withRequestID(ctx, r.RequestID)

	ctx, span := c.tracer.Start(ctx, "backend.Do", trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("backend.path", r.Path),
		attribute.String("backend.request_id", r.RequestID),
	))
	defer span.End()

	c.hook.emit(r, StateInitial)
	resp, err := c.handler(ctx, r)
	if err != nil {
		status := StatusCode(err)
		c.metrics.recordRequest(ctx, r.Method, status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int("http.status_code", status))
		c.logger.LogAttrs(ctx, slog.LevelDebug, "backend request failed",
			slog.String("method", r.Method),
			slog.String("path", r.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.metrics.recordRequest(ctx, r.Method, resp.StatusCode)
	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("http.attempt", resp.Attempt),
	)
	if err := resp.Decode(out); err != nil {
		span.RecordError(err)
		return resp, err
	}
	return resp, nil
}

// Get issues GET path and decodes into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, NewRequest(http.MethodGet, path), out)
	return err
}

// Post issues POST path with body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues PUT path with body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

// Patch issues PATCH path with body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, NewRequest(http.MethodDelete, path), out)
	return err
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := NewJSONRequest(method, path, body)
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, req, out)
	return err
}

// announce marks the attempt as leaving the client.
func (c *Client) announce(next Handler) Handler {
	return func(ctx context.Context, req *Request) (*Response, error) {
		if req.IsRetry() {
			c.metrics.recordRetry(ctx)
			c.hook.emit(req, StateRetried)
		} else {
			c.hook.emit(req, StateSent)
		}
		return next(ctx, req)
	}
}

var _ Requester = (*Client)(nil)
