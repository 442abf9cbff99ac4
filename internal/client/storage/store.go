// Package storage persists session values (token, refresh token, user,
// role) the way a browser keeps cookies.
//
// Three implementations share the Store contract:
//
//   - CookieStore: real HTTP cookies bound to one request/response pair,
//     used by the web frontend.
//   - SQLiteStore: an on-disk cookie file for the terminal client.
//   - MemoryStore: an in-process map, mostly for tests.
//
// Every value written through a Store expires after the configured max age
// (7 days by default).
package storage

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authdash/internal/common"
)

// Store is a small cookie-like key/value store.
//
// Get reports ok=false for a missing, deleted or expired entry; err is
// reserved for backend failures.
type Store interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

// ClearSession deletes every session cookie from s. All names are attempted
// even if one fails; the failures are joined.
func ClearSession(ctx context.Context, s Store) error {
	var errs []error
	for _, name := range common.SessionCookieNames {
		if err := s.Delete(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
