package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/dbattr/internal/quality"
	"github.com/roach88/dbattr/internal/querysql"
	"github.com/roach88/dbattr/internal/session"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on lower-cased series names
// 2 - Rebuilt that index on the Unicode-aware lower function
const currentSchemaVersion = 2

// Store is the series catalog.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db       *sql.DB
	registry quality.Registry
	compiler *querysql.SQLCompiler
}

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the quality registry used to rank releases.
// The built-in catalog is used when no registry is given.
func WithRegistry(r quality.Registry) Option {
	return func(s *Store) {
		s.registry = r
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open(querysql.DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:       db,
		registry: quality.Default(),
		compiler: querysql.NewSQLCompiler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Registry returns the quality registry releases are ranked with.
func (s *Store) Registry() quality.Registry {
	return s.registry
}

// Begin implements session.Provider.
func (s *Store) Begin(ctx context.Context) (session.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx is a store session backed by a database transaction.
type Tx struct {
	tx *sql.Tx
}

// Commit implements session.Session.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Close implements session.Session. It rolls back anything uncommitted and
// is a no-op after Commit.
func (t *Tx) Close() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// txOf recovers the transaction behind a session opened by Begin.
func txOf(sess session.Session) (*sql.Tx, error) {
	t, ok := sess.(*Tx)
	if !ok {
		return nil, fmt.Errorf("session %T was not opened by this store", sess)
	}
	return t.tx, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		slog.Debug("applied schema migration", "version", 1)
	}

	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
		slog.Debug("applied schema migration", "version", 2)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes LOWER(name) so case-insensitive lookups can use it.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_series_name_lower
		ON series(LOWER(name))
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 replaces the LOWER(name) index, which folds ASCII only, with
// one on the function name lookups are compiled to. Only connections from
// querysql.DriverName can write series rows afterwards.
func migrateToV2(db *sql.DB) error {
	_, err := db.Exec(`
		DROP INDEX IF EXISTS idx_series_name_lower;
		CREATE INDEX IF NOT EXISTS idx_series_name_fold
		ON series(dbattr_lower(name));
	`)
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
