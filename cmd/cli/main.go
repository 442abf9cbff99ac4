package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authdash/internal/buildinfo"
	"github.com/dmitrijs2005/authdash/internal/client/cli"
	"github.com/dmitrijs2005/authdash/internal/client/client"
	"github.com/dmitrijs2005/authdash/internal/client/config"
	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/logging"
)

func newApp(ctx context.Context) cli.AppFactory {
	return func(cfg *config.Config) (*cli.App, func(), error) {
		logger := logging.NewText(os.Stderr, cfg.LogLevel)

		store, db, err := storage.OpenSQLite(ctx, cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cookie store: %w", err)
		}

		apiClient, err := client.NewHTTPClient(cfg.APIURL,
			client.WithTimeout(cfg.RequestTimeout),
			client.WithLoginPath(cfg.LoginPath),
			client.WithCookieJar(),
			client.WithLogger(logger.With("module", "api_client")),
		)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		as := services.NewAuthService(apiClient,
			services.WithStaticFallback(cfg.StaticFallback),
			services.WithLogger(logger.With("module", "auth_service")),
		)

		app := cli.NewApp(as, store, os.Stdin, os.Stdout, logger)
		return app, func() { _ = db.Close() }, nil
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	root := cli.NewRootCommand(cfg, newApp(ctx))
	root.Version = buildinfo.Version

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}

}
