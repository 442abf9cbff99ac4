package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/authdash/internal/buildinfo"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/server"
	"github.com/dmitrijs2005/authdash/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	logger.Info(ctx, "auth API build", buildinfo.Fields()...)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}

}
