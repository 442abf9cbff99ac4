// Package services contains application services for the authdash client.
// This file defines the authentication service: login with an optional
// static fallback, logout, register, and reconciliation of the stored
// session into an AuthState.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/client"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/client/tokens"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/models"
)

const (
	// StaticUserID is the id given to users of fabricated sessions.
	StaticUserID = "static-user"
	// StaticUserRole is the role given to users of fabricated sessions.
	StaticUserRole = "user"

	defaultLoginMessage    = "login failed"
	defaultRegisterMessage = "registration failed"
)

// AuthService defines authentication operations shared by the web frontend
// and the terminal client. Every method works on the session held in store.
//
// Contract:
//   - Login: authenticate against the API and persist the session; with
//     static fallback enabled an unreachable API yields a demo session.
//   - Logout: drop every session value.
//   - Register: create an account; sign in when the API returns a token.
//   - IsAuthenticated/CurrentUser/State: inspect the stored session.
//   - RefreshProfile: re-read the profile of a real session from the API.
type AuthService interface {
	Login(ctx context.Context, store storage.Store, creds models.Credentials) (*LoginResult, error)
	Logout(ctx context.Context, store storage.Store) error
	Register(ctx context.Context, store storage.Store, req models.RegisterRequest) (*RegisterResult, error)

	Token(ctx context.Context, store storage.Store) (string, error)
	User(ctx context.Context, store storage.Store) (*models.User, error)
	Role(ctx context.Context, store storage.Store) (string, error)
	DecodedToken(ctx context.Context, store storage.Store) (*tokens.DecodedToken, error)

	IsAuthenticated(ctx context.Context, store storage.Store) (bool, error)
	CurrentUser(ctx context.Context, store storage.Store) (*models.User, error)
	State(ctx context.Context, store storage.Store) (AuthState, error)
	RefreshProfile(ctx context.Context, store storage.Store) (*models.User, error)

	Ping(ctx context.Context) error
}

// AuthState is the resolved view of a stored session.
type AuthState struct {
	User          *models.User
	Role          string
	Authenticated bool
	Static        bool
	ExpiresAt     time.Time
}

// LoginResult describes a successful login.
type LoginResult struct {
	User   *models.User
	Static bool
}

// RegisterResult describes a successful registration. SignedIn is set when
// the API answered with a token and the session was persisted.
type RegisterResult struct {
	User     *models.User
	SignedIn bool
}

// LoginError is a rejected login or registration. Message is safe to show
// to the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Err }

// Option configures the auth service.
type Option func(*authService)

// WithStaticFallback enables demo sessions when the API is unreachable.
// Mock tokens are only honoured while this is on.
func WithStaticFallback(enabled bool) Option {
	return func(a *authService) { a.static = enabled }
}

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *authService) { a.now = now }
}

type authService struct {
	client client.Client
	static bool
	logger logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client, opts ...Option) AuthService {
	a := &authService{
		client: c,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login authenticates creds and stores token, refresh token, user and role.
// Only an unreachable API triggers the static fallback; rejected credentials
// always surface as *LoginError.
func (a *authService) Login(ctx context.Context, store storage.Store, creds models.Credentials) (*LoginResult, error) {
	resp, err := a.client.Login(ctx, store, creds)
	if err != nil {
		if a.static && errors.Is(err, client.ErrUnavailable) {
			a.logger.Warn(ctx, "auth api unreachable, starting static session", "error", err)
			return a.staticLogin(ctx, store, creds.Email)
		}
		return nil, loginError(err, defaultLoginMessage)
	}
	if resp.Token == "" {
		return nil, &LoginError{Message: defaultLoginMessage, Err: common.ErrInvalidToken}
	}

	u, err := a.persist(ctx, store, resp)
	if err != nil {
		return nil, err
	}
	a.logger.Info(ctx, "login succeeded", "user_id", userID(u))
	return &LoginResult{User: u}, nil
}

func (a *authService) staticLogin(ctx context.Context, store storage.Store, email string) (*LoginResult, error) {
	u := &models.User{ID: StaticUserID, Email: email, Role: StaticUserRole}
	u.Name = u.DisplayName()

	resp := &models.AuthResponse{Token: tokens.NewMock(), User: u}
	if _, err := a.persist(ctx, store, resp); err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Static: true}, nil
}

// persist writes the session. When the response carries no user the profile
// is taken from the token claims.
func (a *authService) persist(ctx context.Context, store storage.Store, resp *models.AuthResponse) (*models.User, error) {
	u := resp.User
	if u == nil {
		if d, err := tokens.Decode(resp.Token); err == nil {
			u = d.User()
		}
	}

	if err := store.Set(ctx, common.CookieToken, resp.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	if err := setOrDelete(ctx, store, common.CookieRefreshToken, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	if u == nil {
		if err := setOrDelete(ctx, store, common.CookieUser, ""); err != nil {
			return nil, err
		}
		if err := setOrDelete(ctx, store, common.CookieRole, ""); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := a.saveUser(ctx, store, u); err != nil {
		return nil, err
	}
	return u, nil
}

// setOrDelete stores value, or drops name when value is empty so nothing
// from a previous session survives.
func setOrDelete(ctx context.Context, store storage.Store, name, value string) error {
	if value == "" {
		if _, ok, err := store.Get(ctx, name); err != nil || !ok {
			return err
		}
		return store.Delete(ctx, name)
	}
	return store.Set(ctx, name, value)
}

func (a *authService) saveUser(ctx context.Context, store storage.Store, u *models.User) error {
	raw, err := models.EncodeUser(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := store.Set(ctx, common.CookieUser, raw); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := setOrDelete(ctx, store, common.CookieRole, u.Role); err != nil {
		return fmt.Errorf("save role: %w", err)
	}
	return nil
}

func loginError(err error, fallback string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	msg := client.Message(err)
	if msg == "" {
		msg = fallback
	}
	return &LoginError{Message: msg, Err: err}
}

func (a *authService) Logout(ctx context.Context, store storage.Store) error {
	if err := storage.ClearSession(ctx, store); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Register creates an account on the API.
func (a *authService) Register(ctx context.Context, store storage.Store, req models.RegisterRequest) (*RegisterResult, error) {
	resp, err := a.client.Register(ctx, store, req)
	if err != nil {
		return nil, loginError(err, defaultRegisterMessage)
	}
	if resp.Token == "" {
		return &RegisterResult{User: resp.User}, nil
	}

	u, err := a.persist(ctx, store, resp)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{User: u, SignedIn: true}, nil
}

func (a *authService) Token(ctx context.Context, store storage.Store) (string, error) {
	v, _, err := store.Get(ctx, common.CookieToken)
	return v, err
}

// User returns the stored user record. A malformed record reads as nil.
func (a *authService) User(ctx context.Context, store storage.Store) (*models.User, error) {
	raw, ok, err := store.Get(ctx, common.CookieUser)
	if err != nil || !ok {
		return nil, err
	}
	u, err := models.DecodeUser(raw)
	if err != nil {
		a.logger.Debug(ctx, "ignoring malformed user cookie", "error", err)
		return nil, nil
	}
	return u, nil
}

func (a *authService) Role(ctx context.Context, store storage.Store) (string, error) {
	v, _, err := store.Get(ctx, common.CookieRole)
	return v, err
}

// DecodedToken returns the claims of the stored token, or nil when there is
// no token or it is not a JWT.
func (a *authService) DecodedToken(ctx context.Context, store storage.Store) (*tokens.DecodedToken, error) {
	token, err := a.Token(ctx, store)
	if err != nil || token == "" {
		return nil, err
	}
	d, err := tokens.Decode(token)
	if err != nil {
		return nil, nil
	}
	return d, nil
}

func (a *authService) IsAuthenticated(ctx context.Context, store storage.Store) (bool, error) {
	st, err := a.State(ctx, store)
	return st.Authenticated, err
}

// CurrentUser prefers the stored user record and falls back to the token
// claims.
func (a *authService) CurrentUser(ctx context.Context, store storage.Store) (*models.User, error) {
	u, err := a.User(ctx, store)
	if err != nil || u != nil {
		return u, err
	}
	d, err := a.DecodedToken(ctx, store)
	if err != nil || d == nil {
		return nil, err
	}
	return d.User(), nil
}

// State resolves the stored session:
//   - no token: anonymous;
//   - decodable token: authenticated while exp is in the future;
//   - expired token with a refresh token: renewed first;
//   - mock token: authenticated only in static mode and with a user record;
//   - anything else: anonymous.
func (a *authService) State(ctx context.Context, store storage.Store) (AuthState, error) {
	token, err := a.Token(ctx, store)
	if err != nil || token == "" {
		return AuthState{}, err
	}
	if !tokens.IsMock(token) {
		if d, err := tokens.Decode(token); err == nil && d.Expired(a.now()) {
			if token, err = a.renew(ctx, store); err != nil || token == "" {
				return AuthState{}, err
			}
		}
	}

	u, err := a.CurrentUser(ctx, store)
	if err != nil {
		return AuthState{}, err
	}
	role, err := a.Role(ctx, store)
	if err != nil {
		return AuthState{}, err
	}
	if role == "" && u != nil {
		role = u.Role
	}

	if tokens.IsMock(token) {
		if !a.static || u == nil {
			return AuthState{}, nil
		}
		return AuthState{User: u, Role: role, Authenticated: true, Static: true}, nil
	}

	d, err := tokens.Decode(token)
	if err != nil || d.Expired(a.now()) {
		return AuthState{}, nil
	}
	if u == nil {
		u = d.User()
	}
	return AuthState{User: u, Role: role, Authenticated: true, ExpiresAt: d.ExpiresAt()}, nil
}

// renew exchanges the stored refresh token for a new pair and persists it.
// It returns "" when the session cannot be renewed. A rejected refresh token
// ends the session; an unreachable API leaves it for a later attempt.
func (a *authService) renew(ctx context.Context, store storage.Store) (string, error) {
	if _, ok, err := store.Get(ctx, common.CookieRefreshToken); err != nil || !ok {
		return "", err
	}

	resp, err := a.client.Refresh(ctx, store)
	if err != nil {
		var apiErr *client.APIError
		switch {
		case errors.Is(err, context.Canceled):
			return "", err
		case errors.Is(err, client.ErrUnauthorized):
			// the client has cleared the session
		case errors.As(err, &apiErr) && apiErr.Status >= 500, errors.Is(err, client.ErrUnavailable):
			a.logger.Warn(ctx, "session renewal failed", "error", err)
			return "", nil
		default:
			if cerr := storage.ClearSession(ctx, store); cerr != nil {
				return "", fmt.Errorf("clear session: %w", cerr)
			}
		}
		a.logger.Info(ctx, "session renewal rejected", "error", err)
		return "", nil
	}

	u, err := a.persist(ctx, store, resp)
	if err != nil {
		return "", err
	}
	a.logger.Info(ctx, "session renewed", "user_id", userID(u))
	return resp.Token, nil
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

// RefreshProfile fetches the profile of a real session and stores it.
// Static sessions return the stored user untouched.
func (a *authService) RefreshProfile(ctx context.Context, store storage.Store) (*models.User, error) {
	token, err := a.Token(ctx, store)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, client.ErrUnauthorized
	}
	if tokens.IsMock(token) {
		return a.User(ctx, store)
	}

	u, err := a.client.Me(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := a.saveUser(ctx, store, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
