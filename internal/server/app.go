// Package server wires the auth API: storage backend, user service,
// HTTP handlers and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/metrics"
	"github.com/dmitrijs2005/authdash/internal/netx"
	"github.com/dmitrijs2005/authdash/internal/server/config"
	"github.com/dmitrijs2005/authdash/internal/server/httpapi"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authdash/internal/server/users"
)

const metricsNamespace = "authdash_api"

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *users.Service
	handler     *httpapi.Handler
}

// openRepositories is a seam for tests that cannot reach PostgreSQL.
var openRepositories = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, dsn)
}

// NewApp opens storage, applies migrations and seeds the demo account when
// one is configured.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := openRepositories(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	us := users.NewService(repos, c)

	if c.DemoEmail != "" && c.DemoPassword != "" {
		if err := us.SeedDemo(ctx, c.DemoEmail, c.DemoPassword); err != nil {
			_ = repos.Close()
			return nil, err
		}
		logger.Info(ctx, "demo account ready", "email", c.DemoEmail)
	}

	reg, m := metrics.NewRegistry(metricsNamespace)

	return &App{
		config:      c,
		logger:      logger,
		repos:       repos,
		userService: us,
		handler:     httpapi.NewHandler(us, logger, reg, m),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves the API until ctx is cancelled or a termination signal
// arrives, then closes storage.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	storage := "memory"
	if app.config.DatabaseDSN != "" {
		storage = "postgres"
	}
	app.logger.Info(ctx, "Starting auth API...", "addr", app.config.ListenAddr, "storage", storage)

	app.initSignalHandler(ctx, cancelFunc)

	err := netx.ListenAndServe(ctx, app.config.ListenAddr, app.handler.Router(), app.logger)

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "closing storage failed", "error", cerr)
	}

	if err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}
