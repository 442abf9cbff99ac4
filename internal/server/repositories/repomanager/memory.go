package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authdash/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/users"
)

// MemoryRepositoryManager is used when no database is configured. InTx
// calls are serialised; there is no rollback.
type MemoryRepositoryManager struct {
	mu     sync.Mutex
	users  *users.MemoryRepository
	tokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		tokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository                 { return m.users }
func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository { return m.tokens }
func (m *MemoryRepositoryManager) RunMigrations(context.Context) error     { return nil }
func (m *MemoryRepositoryManager) Close() error                            { return nil }

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn TxFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.users, m.tokens)
}
