package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	auth "github.com/goliatone/go-campus-auth"
	"github.com/goliatone/go-campus-auth/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := auth.NewJSONLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
