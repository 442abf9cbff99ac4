package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/client"
	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/metrics"
	"github.com/dmitrijs2005/authdash/internal/models"
	"github.com/dmitrijs2005/authdash/internal/webutil"
)

const (
	pathDashboard = "/dashboard"
	pathLogout    = "/logout"

	msgMissingCredentials = "Email and password are required"
	msgMalformedForm      = "Malformed form data"
)

// AppHandler is a page handler that may fail.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler. A *webutil.HTTPError sets the status and
// the plain text body; any other error is logged and answered with 500.
func (a *App) MakeHandler(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		status, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		var httpErr *webutil.HTTPError
		if errors.As(err, &httpErr) {
			status, msg = httpErr.Code, httpErr.Message
			a.logger.Warn(r.Context(), "client error response", "code", status, "msg", msg, "path", r.URL.Path)
		} else {
			a.logger.Error(r.Context(), "unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		}
		http.Error(w, msg, status)
	}
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(common.HeaderContentType, common.ContentTypeText)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleLanding sends the visitor to the dashboard or to the login page.
func (a *App) handleLanding(w http.ResponseWriter, r *http.Request) error {
	target := common.PathLoginAlt
	if AuthStateFrom(r.Context()).Authenticated {
		target = pathDashboard
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

func (a *App) handleLoginForm(w http.ResponseWriter, r *http.Request) error {
	if AuthStateFrom(r.Context()).Authenticated {
		http.Redirect(w, r, pathDashboard, http.StatusFound)
		return nil
	}
	return a.pages.render(w, http.StatusOK, pageLogin, formPage{Title: "Sign in"})
}

func (a *App) handleLoginSubmit(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return webutil.ErrBadRequestWrap(msgMalformedForm, err)
	}
	creds := models.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page := formPage{Title: "Sign in", Email: creds.Email}

	if creds.Email == "" || creds.Password == "" {
		page.Error = msgMissingCredentials
		return a.pages.render(w, http.StatusOK, pageLogin, page)
	}

	ctx := r.Context()
	res, err := a.auth.Login(ctx, storeFrom(ctx), creds)
	if err != nil {
		var le *services.LoginError
		if !errors.As(err, &le) {
			return err
		}
		a.metrics.Logins.WithLabelValues(metrics.OutcomeFailure).Inc()
		page.Error = le.Message
		return a.pages.render(w, http.StatusOK, pageLogin, page)
	}

	outcome := metrics.OutcomeSuccess
	if res.Static {
		outcome = metrics.OutcomeStatic
	}
	a.metrics.Logins.WithLabelValues(outcome).Inc()

	http.Redirect(w, r, pathDashboard, http.StatusSeeOther)
	return nil
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	if err := a.auth.Logout(ctx, storeFrom(ctx)); err != nil {
		return err
	}
	a.metrics.Logouts.Inc()
	http.Redirect(w, r, common.PathLoginAlt, http.StatusSeeOther)
	return nil
}

func (a *App) handleRegisterForm(w http.ResponseWriter, r *http.Request) error {
	if AuthStateFrom(r.Context()).Authenticated {
		http.Redirect(w, r, pathDashboard, http.StatusFound)
		return nil
	}
	return a.pages.render(w, http.StatusOK, pageRegister, formPage{Title: "Create account"})
}

func (a *App) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return webutil.ErrBadRequestWrap(msgMalformedForm, err)
	}
	req := models.RegisterRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
	}
	page := formPage{Title: "Create account", Email: req.Email, Name: req.Name}

	if req.Email == "" || req.Password == "" {
		page.Error = msgMissingCredentials
		return a.pages.render(w, http.StatusOK, pageRegister, page)
	}

	ctx := r.Context()
	res, err := a.auth.Register(ctx, storeFrom(ctx), req)
	if err != nil {
		var le *services.LoginError
		if !errors.As(err, &le) {
			return err
		}
		a.metrics.Registrations.WithLabelValues(metrics.OutcomeFailure).Inc()
		page.Error = le.Message
		return a.pages.render(w, http.StatusOK, pageRegister, page)
	}
	a.metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()

	target := common.PathLoginAlt
	if res.SignedIn {
		target = pathDashboard
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}

// handleDashboard renders the profile of the signed in user. Real sessions
// re-read the profile first; a rejected token ends the session.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	st := AuthStateFrom(ctx)
	user := st.User

	if !st.Static {
		u, err := a.auth.RefreshProfile(ctx, storeFrom(ctx))
		switch {
		case err == nil:
			user = u
			if u.Role != "" {
				st.Role = u.Role
			}
		case errors.Is(err, client.ErrUnauthorized):
			http.Redirect(w, r, common.PathLoginAlt, http.StatusFound)
			return nil
		default:
			a.logger.Warn(ctx, "profile refresh failed, using stored profile", "error", err)
		}
	}

	page := dashboardPage{
		Title:  "Dashboard",
		Role:   st.Role,
		Static: st.Static,
	}
	if user != nil {
		page.User = dashboardUser{ID: user.ID, Email: user.Email, Name: user.Name}
	}
	if !st.ExpiresAt.IsZero() {
		page.ExpiresAt = st.ExpiresAt.UTC().Format(time.RFC1123)
	}
	return a.pages.render(w, http.StatusOK, pageDashboard, page)
}
