package client

import (
	"context"

	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/models"
)

// Client is the auth API contract used by the client-side services.
//
// store supplies the bearer token and is cleared when the API answers
// 401/403. It may be nil for anonymous calls.
type Client interface {
	Login(ctx context.Context, store storage.Store, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, store storage.Store, req models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, store storage.Store) (*models.User, error)
	Refresh(ctx context.Context, store storage.Store) (*models.AuthResponse, error)
	Ping(ctx context.Context) error
}
