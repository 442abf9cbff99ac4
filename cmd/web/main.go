package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authdash/internal/buildinfo"
	"github.com/dmitrijs2005/authdash/internal/client/config"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/web"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	logger.Info(ctx, "web frontend build", buildinfo.Fields()...)

	app, err := web.New(cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "web frontend stopped", "error", err)
		os.Exit(1)
	}

}
