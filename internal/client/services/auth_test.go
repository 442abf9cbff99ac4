package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/client"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/client/tokens"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements client.Client for AuthService unit tests.
type fakeClient struct {
	LoginRet    *models.AuthResponse
	LoginErr    error
	RegisterRet *models.AuthResponse
	RegisterErr error
	MeRet       *models.User
	MeErr       error
	RefreshRet  *models.AuthResponse
	RefreshErr  error
	PingErr     error

	LastCreds    models.Credentials
	LastRegister models.RegisterRequest
	MeCalls      int
	RefreshCalls int
}

func (f *fakeClient) Login(_ context.Context, _ storage.Store, creds models.Credentials) (*models.AuthResponse, error) {
	f.LastCreds = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, _ storage.Store, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Me(_ context.Context, _ storage.Store) (*models.User, error) {
	f.MeCalls++
	return f.MeRet, f.MeErr
}

func (f *fakeClient) Refresh(_ context.Context, _ storage.Store) (*models.AuthResponse, error) {
	f.RefreshCalls++
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

var _ client.Client = (*fakeClient)(nil)

// ---- helpers ----

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func makeJWT(t *testing.T, id, email, role string, exp time.Time) string {
	t.Helper()
	claims := tokens.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
		ID:    id,
		Email: email,
		Role:  role,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}

func newSvc(fc *fakeClient, static bool) AuthService {
	return NewAuthService(fc, WithStaticFallback(static), WithClock(func() time.Time { return testNow }))
}

func get(t *testing.T, s storage.Store, name string) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), name)
	require.NoError(t, err)
	return v, ok
}

// ---- Login ----

func TestLogin_PersistsSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	token := makeJWT(t, "1", "a@b.com", "admin", testNow.Add(time.Hour))
	fc := &fakeClient{LoginRet: &models.AuthResponse{
		Token:        token,
		RefreshToken: "R",
		User:         &models.User{ID: "1", Email: "a@b.com", Role: "admin"},
	}}

	res, err := newSvc(fc, false).Login(ctx, store, models.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.False(t, res.Static)
	assert.Equal(t, "a@b.com", fc.LastCreds.Email)

	v, _ := get(t, store, common.CookieToken)
	assert.Equal(t, token, v)
	v, _ = get(t, store, common.CookieRefreshToken)
	assert.Equal(t, "R", v)
	v, _ = get(t, store, common.CookieRole)
	assert.Equal(t, "admin", v)
	v, _ = get(t, store, common.CookieUser)
	assert.JSONEq(t, `{"id":"1","email":"a@b.com","role":"admin"}`, v)
}

func TestLogin_NoRoleLeavesNoRoleCookie(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.CookieRole, "admin"))
	fc := &fakeClient{LoginRet: &models.AuthResponse{
		Token: "T",
		User:  &models.User{ID: "2", Email: "c@d.com"},
	}}

	_, err := newSvc(fc, false).Login(ctx, store, models.Credentials{Email: "c@d.com", Password: "x"})
	require.NoError(t, err)

	_, ok := get(t, store, common.CookieRole)
	assert.False(t, ok)
	_, ok = get(t, store, common.CookieRefreshToken)
	assert.False(t, ok)
}

func TestLogin_UserFromClaimsWhenResponseHasNone(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	token := makeJWT(t, "9", "z@z.io", "", testNow.Add(time.Hour))
	fc := &fakeClient{LoginRet: &models.AuthResponse{Token: token}}

	res, err := newSvc(fc, false).Login(ctx, store, models.Credentials{Email: "z@z.io", Password: "x"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "9", res.User.ID)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	store := storage.NewMemoryStore()
	fc := &fakeClient{LoginErr: &client.APIError{Status: 400, Message: "Credenciales inválidas"}}

	// static mode never hides a rejection
	_, err := newSvc(fc, true).Login(context.Background(), store, models.Credentials{Email: "a@b.com", Password: "bad"})
	require.Error(t, err)

	var le *LoginError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "Credenciales inválidas", le.Message)
	assert.Equal(t, 0, store.Len())
}

func TestLogin_UnavailableWithoutFallback(t *testing.T) {
	fc := &fakeClient{LoginErr: client.ErrUnavailable}

	_, err := newSvc(fc, false).Login(context.Background(), storage.NewMemoryStore(), models.Credentials{Email: "a@b.com"})
	var le *LoginError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "login failed", le.Message)
	assert.True(t, errors.Is(err, client.ErrUnavailable))
}

func TestLogin_StaticFallback(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	fc := &fakeClient{LoginErr: client.ErrUnavailable}
	svc := newSvc(fc, true)

	res, err := svc.Login(ctx, store, models.Credentials{Email: "demo@example.com", Password: "x"})
	require.NoError(t, err)
	assert.True(t, res.Static)

	want := &models.User{ID: StaticUserID, Email: "demo@example.com", Name: "demo", Role: StaticUserRole}
	if diff := cmp.Diff(want, res.User); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}

	token, _ := get(t, store, common.CookieToken)
	assert.True(t, strings.HasPrefix(token, tokens.MockPrefix))

	st, err := svc.State(ctx, store)
	require.NoError(t, err)
	assert.True(t, st.Authenticated)
	assert.True(t, st.Static)
	assert.Equal(t, StaticUserRole, st.Role)
}

func TestLogin_EmptyTokenIsFailure(t *testing.T) {
	fc := &fakeClient{LoginRet: &models.AuthResponse{}}
	_, err := newSvc(fc, false).Login(context.Background(), storage.NewMemoryStore(), models.Credentials{})
	var le *LoginError
	require.True(t, errors.As(err, &le))
}

// ---- Logout ----

func TestLogout_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	for _, n := range common.SessionCookieNames {
		require.NoError(t, store.Set(ctx, n, "v"))
	}
	require.NoError(t, newSvc(&fakeClient{}, false).Logout(ctx, store))
	assert.Equal(t, 0, store.Len())
}

// ---- Register ----

func TestRegister(t *testing.T) {
	t.Run("signed in when token returned", func(t *testing.T) {
		store := storage.NewMemoryStore()
		fc := &fakeClient{RegisterRet: &models.AuthResponse{Token: "T", User: &models.User{ID: "3", Email: "n@n.io"}}}

		res, err := newSvc(fc, false).Register(context.Background(), store, models.RegisterRequest{Email: "n@n.io", Password: "secret1", Name: "N"})
		require.NoError(t, err)
		assert.True(t, res.SignedIn)
		assert.Equal(t, "N", fc.LastRegister.Name)
		v, _ := get(t, store, common.CookieToken)
		assert.Equal(t, "T", v)
	})

	t.Run("no token", func(t *testing.T) {
		store := storage.NewMemoryStore()
		fc := &fakeClient{RegisterRet: &models.AuthResponse{User: &models.User{ID: "3"}}}

		res, err := newSvc(fc, false).Register(context.Background(), store, models.RegisterRequest{Email: "n@n.io"})
		require.NoError(t, err)
		assert.False(t, res.SignedIn)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("conflict", func(t *testing.T) {
		fc := &fakeClient{RegisterErr: &client.APIError{Status: 409, Message: "email already registered"}}
		_, err := newSvc(fc, false).Register(context.Background(), storage.NewMemoryStore(), models.RegisterRequest{Email: "n@n.io"})
		var le *LoginError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "email already registered", le.Message)
	})
}

// ---- State ----

func TestState(t *testing.T) {
	valid := makeJWT(t, "1", "a@b.com", "admin", testNow.Add(time.Hour))
	expired := makeJWT(t, "1", "a@b.com", "admin", testNow.Add(-time.Minute))
	userJSON := `{"id":"1","email":"a@b.com","name":"Ana"}`
	mock := tokens.NewMock()

	tests := []struct {
		name     string
		cookies  map[string]string
		static   bool
		wantAuth bool
		wantUser string
		wantRole string
	}{
		{name: "no token", cookies: map[string]string{common.CookieUser: userJSON}},
		{name: "valid token only", cookies: map[string]string{common.CookieToken: valid}, wantAuth: true, wantUser: "a@b.com", wantRole: "admin"},
		{name: "valid token and user", cookies: map[string]string{common.CookieToken: valid, common.CookieUser: userJSON, common.CookieRole: "editor"}, wantAuth: true, wantUser: "a@b.com", wantRole: "editor"},
		{name: "expired token", cookies: map[string]string{common.CookieToken: expired, common.CookieUser: userJSON}},
		{name: "garbage token", cookies: map[string]string{common.CookieToken: "nope", common.CookieUser: userJSON}},
		{name: "mock token static mode", cookies: map[string]string{common.CookieToken: mock, common.CookieUser: userJSON}, static: true, wantAuth: true, wantUser: "a@b.com"},
		{name: "mock token without static mode", cookies: map[string]string{common.CookieToken: mock, common.CookieUser: userJSON}},
		{name: "mock token without user", cookies: map[string]string{common.CookieToken: mock}, static: true},
		{name: "mock token malformed user", cookies: map[string]string{common.CookieToken: mock, common.CookieUser: "{bad"}, static: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			for k, v := range tt.cookies {
				require.NoError(t, store.Set(ctx, k, v))
			}
			svc := newSvc(&fakeClient{}, tt.static)

			st, err := svc.State(ctx, store)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, st.Authenticated)

			ok, err := svc.IsAuthenticated(ctx, store)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, ok)

			if !tt.wantAuth {
				assert.Nil(t, st.User)
				return
			}
			require.NotNil(t, st.User)
			assert.Equal(t, tt.wantUser, st.User.Email)
			assert.Equal(t, tt.wantRole, st.Role)
		})
	}
}

func TestCurrentUser_PrefersCookie(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.CookieToken, makeJWT(t, "1", "jwt@x.io", "", testNow.Add(time.Hour))))
	svc := newSvc(&fakeClient{}, false)

	u, err := svc.CurrentUser(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "jwt@x.io", u.Email)

	require.NoError(t, store.Set(ctx, common.CookieUser, `{"id":"1","email":"cookie@x.io"}`))
	u, err = svc.CurrentUser(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "cookie@x.io", u.Email)
}

func TestCurrentUser_Empty(t *testing.T) {
	u, err := newSvc(&fakeClient{}, false).CurrentUser(context.Background(), storage.NewMemoryStore())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestDecodedToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := newSvc(&fakeClient{}, false)

	d, err := svc.DecodedToken(ctx, store)
	require.NoError(t, err)
	assert.Nil(t, d)

	require.NoError(t, store.Set(ctx, common.CookieToken, makeJWT(t, "5", "e@e.io", "", testNow.Add(time.Hour))))
	d, err = svc.DecodedToken(ctx, store)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "5", d.ID)
}

func TestState_RenewsExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.CookieToken, makeJWT(t, "1", "a@b.com", "admin", testNow.Add(-time.Minute))))
	require.NoError(t, store.Set(ctx, common.CookieRefreshToken, "R1"))

	fresh := makeJWT(t, "1", "a@b.com", "admin", testNow.Add(15*time.Minute))
	fc := &fakeClient{RefreshRet: &models.AuthResponse{
		Token:        fresh,
		RefreshToken: "R2",
		User:         &models.User{ID: "1", Email: "a@b.com", Role: "admin"},
	}}

	st, err := newSvc(fc, false).State(ctx, store)
	require.NoError(t, err)
	assert.True(t, st.Authenticated)
	assert.Equal(t, "a@b.com", st.User.Email)
	assert.WithinDuration(t, testNow.Add(15*time.Minute), st.ExpiresAt, 0)
	assert.Equal(t, 1, fc.RefreshCalls)

	v, _ := get(t, store, common.CookieToken)
	assert.Equal(t, fresh, v)
	v, _ = get(t, store, common.CookieRefreshToken)
	assert.Equal(t, "R2", v)
	v, _ = get(t, store, common.CookieRole)
	assert.Equal(t, "admin", v)
}

func TestState_RenewalFailure(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCleared bool
	}{
		{name: "rejected by api", err: &client.APIError{Status: 400, Message: "Refresh token is required"}, wantCleared: true},
		{name: "unauthorized", err: client.ErrUnauthorized},
		{name: "api unreachable", err: client.ErrUnavailable},
		{name: "api error", err: &client.APIError{Status: 500, Message: "Internal Server Error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(ctx, common.CookieToken, makeJWT(t, "1", "a@b.com", "", testNow.Add(-time.Minute))))
			require.NoError(t, store.Set(ctx, common.CookieRefreshToken, "R1"))
			fc := &fakeClient{RefreshErr: tt.err}

			st, err := newSvc(fc, false).State(ctx, store)
			require.NoError(t, err)
			assert.False(t, st.Authenticated)
			assert.Nil(t, st.User)
			assert.Equal(t, 1, fc.RefreshCalls)

			_, ok := get(t, store, common.CookieRefreshToken)
			assert.Equal(t, !tt.wantCleared, ok)
		})
	}
}

func TestState_ExpiredWithoutRefreshTokenSkipsApi(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.CookieToken, makeJWT(t, "1", "a@b.com", "", testNow.Add(-time.Minute))))
	fc := &fakeClient{}

	st, err := newSvc(fc, false).State(ctx, store)
	require.NoError(t, err)
	assert.False(t, st.Authenticated)
	assert.Equal(t, 0, fc.RefreshCalls)
}

// ---- RefreshProfile ----

func TestRefreshProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("real session stores profile", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, common.CookieToken, makeJWT(t, "1", "a@b.com", "", testNow.Add(time.Hour))))
		fc := &fakeClient{MeRet: &models.User{ID: "1", Email: "a@b.com", Name: "Ana", Role: "admin"}}

		u, err := newSvc(fc, false).RefreshProfile(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, "Ana", u.Name)
		v, _ := get(t, store, common.CookieRole)
		assert.Equal(t, "admin", v)
	})

	t.Run("static session skips api", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, common.CookieToken, tokens.NewMock()))
		require.NoError(t, store.Set(ctx, common.CookieUser, `{"id":"static-user","email":"d@d.io"}`))
		fc := &fakeClient{}

		u, err := newSvc(fc, true).RefreshProfile(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, "d@d.io", u.Email)
		assert.Equal(t, 0, fc.MeCalls)
	})

	t.Run("unauthorized propagates", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, common.CookieToken, "T"))
		fc := &fakeClient{MeErr: client.ErrUnauthorized}

		_, err := newSvc(fc, false).RefreshProfile(ctx, store)
		assert.True(t, errors.Is(err, client.ErrUnauthorized))
	})

	t.Run("no token", func(t *testing.T) {
		_, err := newSvc(&fakeClient{}, false).RefreshProfile(ctx, storage.NewMemoryStore())
		assert.True(t, errors.Is(err, client.ErrUnauthorized))
	})
}

func TestPing(t *testing.T) {
	boom := errors.New("boom")
	err := newSvc(&fakeClient{PingErr: boom}, false).Ping(context.Background())
	assert.ErrorIs(t, err, boom)
}
