package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/server/auth"
	"github.com/dmitrijs2005/authdash/internal/webutil"
)

type ctxKey int

const ctxKeyClaims ctxKey = iota

// ClaimsFrom returns the claims stored by RequireBearer.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(*auth.Claims)
	return c, ok
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// access token.
func (h *Handler) RequireBearer(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, r *http.Request, msg string) {
		h.metrics.Unauthorized.WithLabelValues(r.URL.Path).Inc()
		webutil.RespondWithError(w, http.StatusUnauthorized, msg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			reject(w, r, "missing bearer token")
			return
		}

		claims, err := h.users.Authenticate(strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				reject(w, r, "token expired")
			} else {
				reject(w, r, "invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
