// Package httpapi exposes the auth API over HTTP: login, registration,
// refresh-token rotation and the bearer-protected profile endpoint.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/metrics"
	"github.com/dmitrijs2005/authdash/internal/server/auth"
	"github.com/dmitrijs2005/authdash/internal/server/models"
	"github.com/dmitrijs2005/authdash/internal/server/users"
	"github.com/dmitrijs2005/authdash/internal/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// UserService is the business logic behind the handlers.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*users.Session, error)
	Login(ctx context.Context, email, password string) (*users.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*users.Session, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	Authenticate(token string) (*auth.Claims, error)
}

type Handler struct {
	users    UserService
	logger   logging.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func NewHandler(us UserService, logger logging.Logger, gatherer prometheus.Gatherer, m *metrics.Metrics) *Handler {
	return &Handler{
		users:    us,
		logger:   logger.With("module", "httpapi"),
		metrics:  m,
		gatherer: gatherer,
	}
}

// Router returns the HTTP handler of the API. Login and registration are
// served on both of their historical paths.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get(common.PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.HandlerFor(h.gatherer))

	r.Post(common.PathLogin, h.makeHandler(h.handleLogin))
	r.Post(common.PathLoginAlt, h.makeHandler(h.handleLogin))
	r.Post(common.PathRegister, h.makeHandler(h.handleRegister))
	r.Post(common.PathRegisterAuth, h.makeHandler(h.handleRegister))
	r.Post(common.PathRefresh, h.makeHandler(h.handleRefresh))

	r.Group(func(r chi.Router) {
		r.Use(h.RequireBearer)
		r.Get(common.PathMe, h.makeHandler(h.handleMe))
	})

	r.NotFound(h.makeHandler(func(http.ResponseWriter, *http.Request) error {
		return webutil.NewHTTPError(http.StatusNotFound, "Not Found")
	}))
	r.MethodNotAllowed(h.makeHandler(func(http.ResponseWriter, *http.Request) error {
		return webutil.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed")
	}))

	return r
}

func (h *Handler) makeHandler(fn webutil.AppHandler) http.HandlerFunc {
	return webutil.MakeHandler(h.logger, fn)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		h.metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		h.metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
