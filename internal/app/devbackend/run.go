package devbackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/tourbook/internal/devbackend/accounts"
	devmemory "github.com/Apurer/tourbook/internal/devbackend/adapters/memory"
	devpostgres "github.com/Apurer/tourbook/internal/devbackend/adapters/postgres"
	"github.com/Apurer/tourbook/internal/devbackend/httpapi"
	"github.com/Apurer/tourbook/internal/devbackend/ports"
	"github.com/Apurer/tourbook/internal/devbackend/seed"
	"github.com/Apurer/tourbook/internal/devbackend/tokens"
	"github.com/Apurer/tourbook/internal/platform/migrations"
	platformobservability "github.com/Apurer/tourbook/internal/platform/observability"
	platformpostgres "github.com/Apurer/tourbook/internal/platform/postgres"
)

const serviceName = "tourbook-devbackend"

// Run boots the development backend and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.Options{
		LogFormat: platformobservability.LogFormat(cfg.LogFormat),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET not set, signing tokens with the built-in development secret")
	}

	sessions, catalog, cleanup := buildStores(ctx, cfg.PostgresDSN, logger)
	defer cleanup()

	registry := accounts.NewRegistry(bcrypt.DefaultCost)
	if err := seed.Load(ctx, catalog, registry); err != nil {
		return fmt.Errorf("failed to seed data: %w", err)
	}
	issuer, err := tokens.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return err
	}

	router, err := httpapi.NewRouter(httpapi.Config{
		Accounts:     registry,
		Sessions:     sessions,
		Catalog:      catalog,
		Content:      devmemory.NewContent(seed.Posts(), seed.Reviews()),
		Issuer:       issuer,
		RefreshTTL:   cfg.RefreshTokenTTL,
		CookieSecure: cfg.CookieSecure,
		ServiceName:  serviceName,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if cfg.SessionPurgeIntervalMinute > 0 {
		go purgeLoop(ctx, sessions, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, logger)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("tourbook dev backend listening", slog.String("addr", srv.Addr), slog.String("seed_admin", seed.AdminEmail))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("dev backend exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down dev backend")
	return srv.Shutdown(shutdownCtx)
}

// buildStores prefers postgres when dsn is reachable and falls back to memory
// otherwise.
func buildStores(ctx context.Context, dsn string, logger *slog.Logger) (ports.RefreshSessionStore, ports.Catalog, func()) {
	db, cleanup := platformpostgres.Open(ctx, dsn, logger)
	if db == nil {
		return devmemory.NewRefreshSessions(), devmemory.NewCatalog(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return devmemory.NewRefreshSessions(), devmemory.NewCatalog(), func() {}
	}
	logger.Info("refresh sessions and catalog configured with postgres")
	return devpostgres.NewRefreshSessions(db), devpostgres.NewCatalog(db), cleanup
}

func purgeLoop(ctx context.Context, sessions ports.RefreshSessionStore, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purged, err := sessions.PurgeExpired(ctx, now)
			if err != nil {
				logger.Warn("refresh session purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				logger.Info("purged expired refresh sessions", slog.Int64("count", purged))
			}
		}
	}
}
