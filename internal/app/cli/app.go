// Package cli wires the typed API services behind the tourbook command tree.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	"github.com/Apurer/tourbook/internal/config"
	authobs "github.com/Apurer/tourbook/internal/domains/auth/adapters/observability"
	authapp "github.com/Apurer/tourbook/internal/domains/auth/application"
	authdomain "github.com/Apurer/tourbook/internal/domains/auth/domain"
	authports "github.com/Apurer/tourbook/internal/domains/auth/ports"
	blogapp "github.com/Apurer/tourbook/internal/domains/blog/application"
	blogports "github.com/Apurer/tourbook/internal/domains/blog/ports"
	bookingsapp "github.com/Apurer/tourbook/internal/domains/bookings/application"
	bookingsports "github.com/Apurer/tourbook/internal/domains/bookings/ports"
	reviewsapp "github.com/Apurer/tourbook/internal/domains/reviews/application"
	reviewsports "github.com/Apurer/tourbook/internal/domains/reviews/ports"
	toursapp "github.com/Apurer/tourbook/internal/domains/tours/application"
	toursports "github.com/Apurer/tourbook/internal/domains/tours/ports"
	platformobservability "github.com/Apurer/tourbook/internal/platform/observability"
	"github.com/Apurer/tourbook/internal/session"
)

// ErrNoCredentials is returned when a command needs a session and neither
// credentials nor a refresh cookie are available.
var ErrNoCredentials = errors.New("not logged in: pass --email and --password or set TOURBOOK_EMAIL and TOURBOOK_PASSWORD")

// App holds one process-wide session and the services that share it.
type App struct {
	cfg    config.Client
	logger *slog.Logger
	store  *session.Store
	client *backend.Client

	auth     authports.Service
	tours    toursports.Service
	blog     blogports.Service
	reviews  reviewsports.Service
	bookings bookingsports.Service
}

type appOptions struct {
	instruments *platformobservability.Instruments
	httpClient  *http.Client
}

type Option func(*appOptions)

// WithInstruments routes client logs, spans and metrics to instr.
func WithInstruments(instr *platformobservability.Instruments) Option {
	return func(o *appOptions) { o.instruments = instr }
}

// WithHTTPClient replaces the default transport. A cookie jar is added when
// hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *appOptions) { o.httpClient = hc }
}

// NewApp builds the session store, the authenticated client and the typed
// services for cfg.
func NewApp(cfg config.Client, opts ...Option) (*App, error) {
	var o appOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.instruments != nil && o.instruments.Logger != nil {
		logger = o.instruments.Logger
	}

	hc := o.httpClient
	if hc == nil {
		var err error
		if hc, err = backend.NewHTTPClient(cfg.Timeout); err != nil {
			return nil, err
		}
	}
	clientOpts := []backend.Option{
		backend.WithHTTPClient(hc),
		backend.WithLogger(logger),
		backend.WithUserAgent("tourbook-cli"),
	}
	if o.instruments != nil {
		clientOpts = append(clientOpts,
			backend.WithTracer(o.instruments.Tracer("internal.clients.http.backend")),
			backend.WithMeter(o.instruments.Meter("internal.clients.http.backend")),
		)
	}
	if cfg.Debug {
		clientOpts = append(clientOpts, backend.WithStateHook(func(req *backend.Request, state backend.State) {
			logger.Debug("request state", slog.String("method", req.Method), slog.String("path", req.Path), slog.String("state", string(state)))
		}))
	}

	store := session.NewStore()
	client, err := backend.New(cfg.BaseURL, store, clientOpts...)
	if err != nil {
		return nil, err
	}

	authOpts := []authobs.Option{authobs.WithLogger(logger)}
	if o.instruments != nil {
		authOpts = append(authOpts,
			authobs.WithTracer(o.instruments.Tracer("internal.domains.auth.application")),
			authobs.WithMeter(o.instruments.Meter("internal.domains.auth.application")),
		)
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		client:   client,
		auth:     authobs.New(authapp.NewService(client, store, client.Refresher()), authOpts...),
		tours:    toursapp.NewService(client),
		blog:     blogapp.NewService(client),
		reviews:  reviewsapp.NewService(client, store),
		bookings: bookingsapp.NewService(client, store),
	}, nil
}

// Store exposes the session for callers that want to observe it.
func (a *App) Store() *session.Store {
	return a.store
}

// ensureSession logs in with the configured credentials, or restores from the
// refresh cookie when none are set.
func (a *App) ensureSession(ctx context.Context) (*session.User, error) {
	if user := a.store.User(); user != nil && a.store.IsAuthenticated() {
		return user, nil
	}
	if strings.TrimSpace(a.cfg.Email) != "" && a.cfg.Password != "" {
		return a.auth.Login(ctx, authdomain.LoginForm{Email: a.cfg.Email, Password: a.cfg.Password})
	}
	user, err := a.auth.Restore(ctx)
	if err != nil {
		if authapp.IsNotAuthenticated(err) {
			return nil, ErrNoCredentials
		}
		return nil, err
	}
	return user, nil
}
