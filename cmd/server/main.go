package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hrms/internal/app/server"
	"hrms/internal/platform/config"
)

func main() {
	cfg := config.Load()
	logger := server.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	app.Close()
	if err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
