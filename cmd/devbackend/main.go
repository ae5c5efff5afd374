package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/tourbook/internal/app/devbackend"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := devbackend.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := devbackend.Run(ctx, cfg); err != nil {
		log.Fatalf("dev backend failed: %v", err)
	}
}
