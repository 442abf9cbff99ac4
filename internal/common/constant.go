// Package common contains shared constants and sentinel errors used across
// authdash components.
package common

import "time"

// Cookie names used to persist an authenticated session.
const (
	CookieToken        = "token"
	CookieRefreshToken = "refreshToken"
	CookieUser         = "user"
	CookieRole         = "role"
)

// SessionCookieNames lists every cookie that makes up a session, in the
// order they are cleared on logout.
var SessionCookieNames = []string{CookieToken, CookieRefreshToken, CookieRole, CookieUser}

// SessionCookieMaxAge is the lifetime of every session cookie (7 days).
const SessionCookieMaxAge = 7 * 24 * time.Hour

// HTTP header names shared by the API client and the auth backend.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderNgrokSkip     = "ngrok-skip-browser-warning"

	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"

	BearerPrefix = "Bearer "
)

// Auth API routes.
const (
	PathLogin        = "/auth/login"
	PathLoginAlt     = "/login"
	PathRegister     = "/register"
	PathRegisterAuth = "/auth/register"
	PathMe           = "/auth/me"
	PathRefresh      = "/auth/refresh"
	PathHealth       = "/healthz"
)
