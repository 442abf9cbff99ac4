package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const (
	ctxKeyState ctxKey = iota
	ctxKeyStore
)

// AuthStateFrom returns the auth state resolved by LoadAuthState. Requests
// that did not pass through it read as anonymous.
func AuthStateFrom(ctx context.Context) services.AuthState {
	st, _ := ctx.Value(ctxKeyState).(services.AuthState)
	return st
}

// storeFrom returns the request's cookie store.
func storeFrom(ctx context.Context) storage.Store {
	s, _ := ctx.Value(ctxKeyStore).(storage.Store)
	return s
}

func withState(ctx context.Context, st services.AuthState) context.Context {
	return context.WithValue(ctx, ctxKeyState, st)
}

// LoadAuthState binds a cookie store to each request and resolves the auth
// state once, so handlers and templates share the same view.
func (a *App) LoadAuthState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := storage.NewCookieStore(w, r, a.cookieOpts)
		ctx := context.WithValue(r.Context(), ctxKeyStore, storage.Store(store))

		st, err := a.auth.State(ctx, store)
		if err != nil {
			a.logger.Error(ctx, "resolving auth state failed", "error", err)
		}
		next.ServeHTTP(w, r.WithContext(withState(ctx, st)))
	})
}

// RequireAuth redirects anonymous requests to the login page.
func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !AuthStateFrom(r.Context()).Authenticated {
			http.Redirect(w, r, common.PathLoginAlt, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request with the structured logger and records
// the HTTP metrics.
func (a *App) requestLogger(next http.Handler) http.Handler {
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

		a.metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		a.metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		a.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
