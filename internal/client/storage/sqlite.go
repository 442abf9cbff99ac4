package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/storage/migrations"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/dbx"
	"github.com/dmitrijs2005/authdash/internal/filex"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a cookie file backed by the cookies table.
type SQLiteStore struct {
	db     dbx.DBTX
	maxAge time.Duration
	now    func() time.Time
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db, maxAge: common.SessionCookieMaxAge, now: time.Now}
}

// OpenSQLite opens (creating if needed) the cookie file at path and applies
// the schema. The caller owns the returned *sql.DB.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, *sql.DB, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := dbx.Migrate(ctx, db, "sqlite3", migrations.Migrations); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return NewSQLiteStore(db), db, nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `SELECT value, expires_at FROM cookies WHERE name = ?`, name).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}

	if s.now().Unix() >= expiresAt {
		if err := s.Delete(ctx, name); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, name, value, s.now().Add(s.maxAge).Unix())
	if err != nil {
		return fmt.Errorf("failed to set cookie[%s]: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete cookie[%s]: %w", name, err)
	}
	return nil
}
