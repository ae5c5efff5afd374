package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/tourbook/internal/app/cli"
	"github.com/Apurer/tourbook/internal/config"
	platformobservability "github.com/Apurer/tourbook/internal/platform/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 2
	}
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "tourbook-cli", platformobservability.Options{
		LogFormat:      platformobservability.LogFormatText,
		LogLevel:       level,
		LogOutput:      os.Stderr,
		DisableTracing: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize observability:", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	app, err := cli.NewApp(cfg, cli.WithInstruments(instruments))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := cli.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
