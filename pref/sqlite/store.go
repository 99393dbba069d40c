// Package sqlite persists preferences in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/pref"
)

const schema = `CREATE TABLE IF NOT EXISTS prefs (
	name  TEXT PRIMARY KEY,
	kind  TEXT NOT NULL,
	value TEXT NOT NULL
)`

// Store implements pref.Store on a single table keyed by preference name.
type Store struct {
	sqlDB *sql.DB
}

var _ pref.Store = (*Store)(nil)

// Open opens or creates the database at path and ensures the schema exists.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.InvalidInput("path", "sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.DatabaseError(err)
	}
	// Each in-memory connection is its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.DatabaseError(err).WithDetail("path", path)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.DatabaseError(err).WithDetail("path", path)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// NewBranch opens path and wraps it as a preference branch.
func NewBranch(path string, opts ...pref.BranchOption) (*pref.StoreBranch, error) {
	store, err := Open(path)
	if err != nil {
		return nil, err
	}
	return pref.NewStoreBranch(store, opts...), nil
}

// Load implements pref.Store.
func (s *Store) Load(ctx context.Context, name string) (pref.Value, error) {
	var kind, raw string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT kind, value FROM prefs WHERE name = ?`, name).Scan(&kind, &raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return pref.Value{}, nil
	}
	if err != nil {
		return pref.Value{}, errors.DatabaseError(err)
	}
	return pref.DecodeValue(pref.ParseKind(kind), raw)
}

// Save implements pref.Store.
func (s *Store) Save(ctx context.Context, name string, v pref.Value) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO prefs (name, kind, value) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, value = excluded.value`,
		name, v.Kind().String(), v.Encode(),
	)
	if err != nil {
		return errors.DatabaseError(err)
	}
	return nil
}

// Delete implements pref.Store.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM prefs WHERE name = ?`, name); err != nil {
		return errors.DatabaseError(err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return errors.DatabaseError(err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
