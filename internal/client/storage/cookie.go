package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/gorilla/securecookie"
)

// CookieOptions are the attributes written on every Set-Cookie. Codec signs
// each value; cookies it cannot decode read as absent.
type CookieOptions struct {
	Path     string
	MaxAge   time.Duration
	SameSite http.SameSite
	Secure   bool
	HTTPOnly bool
	Codec    securecookie.Codec
}

// DefaultCookieOptions: path "/", 7 days, SameSite=Lax, signed with a random
// key that lives as long as the process.
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{
		Path:     "/",
		MaxAge:   common.SessionCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		HTTPOnly: true,
		Codec:    NewCookieCodec(securecookie.GenerateRandomKey(32)),
	}
}

// NewCookieCodec returns an HMAC-SHA256 codec for hashKey whose signatures
// stop validating after the session cookie lifetime.
func NewCookieCodec(hashKey []byte) *securecookie.SecureCookie {
	return securecookie.New(hashKey, nil).MaxAge(int(common.SessionCookieMaxAge.Seconds()))
}

// CookieStore reads cookies from a request and writes them to the matching
// response. Writes are remembered so later reads in the same request see
// them. It is not safe for concurrent use; create one per request.
type CookieStore struct {
	r       *http.Request
	w       http.ResponseWriter
	opts    CookieOptions
	pending map[string]*string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{r: r, w: w, opts: opts, pending: make(map[string]*string)}
}

func (s *CookieStore) Get(_ context.Context, name string) (string, bool, error) {
	if v, ok := s.pending[name]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}

	c, err := s.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false, nil
	}
	var v string
	if err := s.opts.Codec.Decode(name, c.Value, &v); err != nil {
		// unsigned, tampered or stale
		return "", false, nil
	}
	return v, true, nil
}

func (s *CookieStore) Set(_ context.Context, name, value string) error {
	encoded, err := s.opts.Codec.Encode(name, value)
	if err != nil {
		return fmt.Errorf("encode cookie %s: %w", name, err)
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.MaxAge.Seconds()),
		Expires:  time.Now().Add(s.opts.MaxAge),
		SameSite: s.opts.SameSite,
		Secure:   s.opts.Secure,
		HttpOnly: s.opts.HTTPOnly,
	})
	v := value
	s.pending[name] = &v
	return nil
}

func (s *CookieStore) Delete(_ context.Context, name string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     s.opts.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		SameSite: s.opts.SameSite,
		Secure:   s.opts.Secure,
		HttpOnly: s.opts.HTTPOnly,
	})
	s.pending[name] = nil
	return nil
}
