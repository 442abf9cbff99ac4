package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authdash/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/users"
)

// TxFunc receives repositories bound to a single transaction.
type TxFunc func(ctx context.Context, users users.Repository, tokens refreshtokens.Repository) error

// RepositoryManager vends the repositories of the auth API and runs work
// that must be atomic across them.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	InTx(ctx context.Context, fn TxFunc) error
	Close() error
}
