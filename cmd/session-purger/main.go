package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	devpostgres "github.com/Apurer/tourbook/internal/devbackend/adapters/postgres"
	platformpostgres "github.com/Apurer/tourbook/internal/platform/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.Open(ctx, strings.TrimSpace(os.Getenv("POSTGRES_DSN")), logger)
	defer cleanup()
	if db == nil {
		logger.Error("cannot purge refresh sessions without postgres")
		return 1
	}

	purged, err := devpostgres.NewRefreshSessions(db).PurgeExpired(ctx, time.Now())
	if err != nil {
		logger.Error("failed to purge refresh sessions", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("refresh session purge completed", slog.Int64("purged", purged))
	return 0
}
