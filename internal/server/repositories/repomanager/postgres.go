// Package repomanager provides RepositoryManager implementations for
// PostgreSQL (pgx stdlib driver, goose migrations) and for process memory.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/authdash/internal/dbx"
	"github.com/dmitrijs2005/authdash/internal/server/migrations"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager binds PostgreSQL repositories to a pool or to
// a transaction.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// migrate is a seam for testing dbx.Migrate.
var migrate = func(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS) error {
	return dbx.Migrate(ctx, db, dialect, fsys)
}

// OpenPostgres opens a pgx-backed pool for dsn and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

// NewPostgresRepositoryManager wraps an existing pool.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(m.db)
}

// InTx runs fn in a transaction; it commits when fn returns nil.
func (m *PostgresRepositoryManager) InTx(ctx context.Context, fn TxFunc) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, users.NewPostgresRepository(tx), refreshtokens.NewPostgresRepository(tx))
	})
}

// RunMigrations applies the embedded schema.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrate(ctx, m.db, "postgres", migrations.Migrations)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
