// Package web is the authdash frontend: a server-rendered app that keeps the
// session in browser cookies and talks to the auth API on the user's behalf.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/client"
	"github.com/dmitrijs2005/authdash/internal/client/config"
	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/metrics"
	"github.com/dmitrijs2005/authdash/internal/netx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "authdash_web"

type App struct {
	config     *config.Config
	auth       services.AuthService
	logger     logging.Logger
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	cookieOpts storage.CookieOptions
	pages      pages
}

// New wires the API client and auth service from cfg.
func New(cfg *config.Config, logger logging.Logger) (*App, error) {
	reg, m := metrics.NewRegistry(metricsNamespace)

	apiClient, err := client.NewHTTPClient(cfg.APIURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLoginPath(cfg.LoginPath),
		client.WithLogger(logger.With("module", "api_client")),
		client.WithUnauthorizedHook(func(_ context.Context, _ int, path string) {
			m.Unauthorized.WithLabelValues(path).Inc()
		}),
	)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient,
		services.WithStaticFallback(cfg.StaticFallback),
		services.WithLogger(logger.With("module", "auth_service")),
	)
	return NewApp(cfg, as, logger, reg, m)
}

// NewApp builds the frontend around an existing auth service.
func NewApp(cfg *config.Config, as services.AuthService, logger logging.Logger, gatherer prometheus.Gatherer, m *metrics.Metrics) (*App, error) {
	p, err := parsePages()
	if err != nil {
		return nil, err
	}

	logger = logger.With("module", "web")

	opts := storage.DefaultCookieOptions()
	opts.Secure = cfg.CookieSecure
	if cfg.CookieSecret != "" {
		opts.Codec = storage.NewCookieCodec([]byte(cfg.CookieSecret))
	} else {
		logger.Warn(context.Background(), "cookie secret not set, sessions end when the frontend restarts")
	}

	return &App{
		config:     cfg,
		auth:       as,
		logger:     logger,
		metrics:    m,
		gatherer:   gatherer,
		cookieOpts: opts,
		pages:      p,
	}, nil
}

// Router returns the HTTP handler of the frontend.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get(common.PathHealth, handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.HandlerFor(a.gatherer))

	r.Group(func(r chi.Router) {
		r.Use(a.LoadAuthState)

		r.Get("/", a.MakeHandler(a.handleLanding))
		r.Get(common.PathLoginAlt, a.MakeHandler(a.handleLoginForm))
		r.Post(common.PathLoginAlt, a.MakeHandler(a.handleLoginSubmit))
		r.Get(common.PathRegister, a.MakeHandler(a.handleRegisterForm))
		r.Post(common.PathRegister, a.MakeHandler(a.handleRegisterSubmit))
		r.Post(pathLogout, a.MakeHandler(a.handleLogout))

		r.Group(func(r chi.Router) {
			r.Use(a.RequireAuth)
			r.Get(pathDashboard, a.MakeHandler(a.handleDashboard))
		})
	})

	return r
}

// Run serves the frontend until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info(ctx, "Starting web frontend", "api_url", a.config.APIURL, "static_fallback", a.config.StaticFallback)
	if err := netx.ListenAndServe(ctx, a.config.ListenAddr, a.Router(), a.logger); err != nil {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}
