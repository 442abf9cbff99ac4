package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/models"
	"golang.org/x/net/publicsuffix"
)

// UnauthorizedHook runs after a 401/403 has cleared the stored session.
type UnauthorizedHook func(ctx context.Context, status int, path string)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds every request. Default 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithLoginPath selects the login endpoint ("/auth/login" or "/login").
func WithLoginPath(p string) Option {
	return func(c *HTTPClient) { c.loginPath = p }
}

// WithTransport swaps the round tripper, e.g. for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) { c.http.Transport = rt }
}

// WithCookieJar keeps cookies set by the API between calls. Only use it for
// single-user clients: the jar is shared by every request made through c.
func WithCookieJar() Option {
	return func(c *HTTPClient) {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			c.optErr = fmt.Errorf("cookie jar: %w", err)
			return
		}
		c.http.Jar = jar
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func WithUnauthorizedHook(h UnauthorizedHook) Option {
	return func(c *HTTPClient) { c.onUnauthorized = h }
}

// HTTPClient talks JSON to the auth API.
type HTTPClient struct {
	baseURL        *url.URL
	loginPath      string
	http           *http.Client
	logger         logging.Logger
	onUnauthorized UnauthorizedHook
	optErr         error
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api url %q: %w", baseURL, err)
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: unsupported scheme", baseURL)
	}

	c := &HTTPClient{
		baseURL:   u,
		loginPath: common.PathLogin,
		http:      &http.Client{Timeout: 10 * time.Second},
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.optErr != nil {
		return nil, c.optErr
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, store storage.Store, creds models.Credentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, store, http.MethodPost, c.loginPath, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, store storage.Store, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, store, http.MethodPost, common.PathRegister, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context, store storage.Store) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, store, http.MethodGet, common.PathMe, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Refresh trades the refresh token held in store for a new token pair. The
// pair is returned, not stored. A rejected refresh token clears the session
// like any other 401.
func (c *HTTPClient) Refresh(ctx context.Context, store storage.Store) (*models.AuthResponse, error) {
	if store == nil {
		return nil, ErrUnauthorized
	}
	rt, ok, err := store.Get(ctx, common.CookieRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var resp models.AuthResponse
	if err := c.do(ctx, store, http.MethodPost, common.PathRefresh, models.RefreshRequest{RefreshToken: rt}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("refresh: %w", common.ErrInvalidToken)
	}
	return &resp, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, nil, http.MethodGet, common.PathHealth, nil, nil)
}

func (c *HTTPClient) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// do sends one request: JSON in, JSON out. It attaches the bearer token from
// store and turns failures into ErrUnauthorized, ErrUnavailable or
// *APIError. A 401 "token expired" is answered by refreshing the token pair
// once and repeating the request.
func (c *HTTPClient) do(ctx context.Context, store storage.Store, method, path string, in, out any) error {
	resp, err := c.send(ctx, store, method, path, in)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.renewable(ctx, store, path) {
		msg := readMessage(resp)
		resp.Body.Close()
		if msg != common.ErrTokenExpired.Error() {
			return c.unauthorized(ctx, store, path, http.StatusUnauthorized, msg)
		}
		if err := c.renew(ctx, store); err != nil {
			if rejectedRefresh(err) {
				return c.unauthorized(ctx, store, path, http.StatusUnauthorized, msg)
			}
			return err
		}
		c.logger.Debug(ctx, "token refreshed, retrying", "path", path)
		if resp, err = c.send(ctx, store, method, path, in); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return c.mapError(ctx, store, path, resp)
}

func (c *HTTPClient) send(ctx context.Context, store storage.Store, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(common.HeaderContentType, common.ContentTypeJSON)
	req.Header.Set(common.HeaderNgrokSkip, "true")

	if store != nil && !c.anonymousPath(path) {
		token, ok, err := store.Get(ctx, common.CookieToken)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if ok {
			req.Header.Set(common.HeaderAuthorization, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// anonymousPath reports whether path is called without a bearer token.
func (c *HTTPClient) anonymousPath(path string) bool {
	return path == c.loginPath || path == common.PathRefresh
}

// renewable reports whether a 401 on path may be retried with a fresh token.
func (c *HTTPClient) renewable(ctx context.Context, store storage.Store, path string) bool {
	if store == nil || c.anonymousPath(path) || path == common.PathRegister {
		return false
	}
	_, ok, err := store.Get(ctx, common.CookieRefreshToken)
	return err == nil && ok
}

// renew refreshes the token pair and stores it for the retried request.
func (c *HTTPClient) renew(ctx context.Context, store storage.Store) error {
	resp, err := c.Refresh(ctx, store)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, common.CookieToken, resp.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if resp.RefreshToken != "" {
		if err := store.Set(ctx, common.CookieRefreshToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("save refresh token: %w", err)
		}
	}
	return nil
}

// rejectedRefresh reports a refresh answered by the API with a client error
// or without a token. A 401/403 has already cleared the session.
func rejectedRefresh(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status < http.StatusInternalServerError
	}
	return errors.Is(err, common.ErrInvalidToken)
}

func (c *HTTPClient) mapError(ctx context.Context, store storage.Store, path string, resp *http.Response) error {
	msg := readMessage(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return c.unauthorized(ctx, store, path, resp.StatusCode, msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %d %s", ErrUnavailable, resp.StatusCode, msg)
	default:
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
}

// unauthorized clears the session held in store and fires the hook.
func (c *HTTPClient) unauthorized(ctx context.Context, store storage.Store, path string, status int, msg string) error {
	c.logger.Warn(ctx, "token invalid or expired", "status", status, "path", path)
	if store != nil {
		if err := storage.ClearSession(ctx, store); err != nil {
			c.logger.Error(ctx, "clearing session failed", "error", err)
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx, status, path)
	}
	return &unauthorizedError{status: status, message: msg}
}

// readMessage extracts "message" (or "error") from a JSON error body.
func readMessage(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er models.ErrorResponse
	if err := json.Unmarshal(b, &er); err == nil {
		if er.Message != "" {
			return er.Message
		}
		if er.Error != "" {
			return er.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}
