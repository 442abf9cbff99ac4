package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/metrics"
	pub "github.com/dmitrijs2005/authdash/internal/models"
	"github.com/dmitrijs2005/authdash/internal/server/users"
	"github.com/dmitrijs2005/authdash/internal/webutil"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgCredentialsMissing = "Email and password are required"
	msgEmailTaken         = "Email already registered"
	msgInvalidRefresh     = "Invalid refresh token"
	msgRefreshExpired     = "Refresh token expired"
)

func authResponse(s *users.Session) pub.AuthResponse {
	return pub.AuthResponse{
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         s.User.Public(),
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var creds pub.Credentials
	if err := webutil.DecodeJSON(r, &creds); err != nil {
		return err
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return webutil.ErrBadRequest(msgCredentialsMissing)
	}

	session, err := h.users.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.metrics.Logins.WithLabelValues(metrics.OutcomeFailure).Inc()
		if errors.Is(err, common.ErrorUnauthorized) {
			return webutil.ErrUnauthorized(msgInvalidCredentials)
		}
		return webutil.ErrInternalServerWrap("login", err)
	}

	h.metrics.Logins.WithLabelValues(metrics.OutcomeSuccess).Inc()
	webutil.RespondWithJSON(w, http.StatusOK, authResponse(session))
	return nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req pub.RegisterRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	session, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.metrics.Registrations.WithLabelValues(metrics.OutcomeFailure).Inc()
		switch {
		case errors.Is(err, common.ErrorValidation):
			return webutil.ErrBadRequestWrap(validationMessage(err), err)
		case errors.Is(err, common.ErrorAlreadyExists):
			return webutil.ErrConflict(msgEmailTaken)
		default:
			return webutil.ErrInternalServerWrap("register", err)
		}
	}

	h.metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	webutil.RespondWithJSON(w, http.StatusCreated, authResponse(session))
	return nil
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) error {
	var req pub.RefreshRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return webutil.ErrBadRequest("refreshToken is required")
	}

	session, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			return webutil.ErrUnauthorized(msgRefreshExpired)
		case errors.Is(err, common.ErrorUnauthorized):
			return webutil.ErrUnauthorized(msgInvalidRefresh)
		default:
			return webutil.ErrInternalServerWrap("refresh", err)
		}
	}

	webutil.RespondWithJSON(w, http.StatusOK, authResponse(session))
	return nil
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) error {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("")
	}

	user, err := h.users.Me(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return webutil.ErrUnauthorized("user no longer exists")
		}
		return webutil.ErrInternalServerWrap("me", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user.Public())
	return nil
}

// validationMessage drops the sentinel prefix from a validation error.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
}
