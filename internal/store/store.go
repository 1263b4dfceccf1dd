package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver, registered as "sqlite"
)

// querier is satisfied by both *sqlx.DB and *sqlx.Tx. Query helpers in this
// package take a querier rather than a concrete type so the same code path
// runs standalone or as part of a caller-managed transaction.
type querier interface {
	Get(dest any, query string, args ...any) error
	Select(dest any, query string, args ...any) error
	Exec(query string, args ...any) (sql.Result, error)
}

var (
	_ querier = (*sqlx.DB)(nil)
	_ querier = (*sqlx.Tx)(nil)
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the schema version this build of the code expects,
// checked against the version recorded in the schema_version table on
// Open. A single compiled-in schema, rather than a migration chain, since
// there is only ever one version in play at a time.
const SchemaVersion = 1

// Store is the single source of truth for a vaultgraph installation. It
// wraps a *sqlx.DB pointed at one persisted SQLite file.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open opens (creating if absent) the SQLite database at path, verifies or
// installs the schema, and returns a ready Store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Connect("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single-writer embedded file; avoid SQLITE_BUSY under our own concurrency

	s := &Store{db: db, logger: logger}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("store: create schema_version table: %w", err)
	}

	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM schema_version`); err != nil {
		return fmt.Errorf("store: read schema_version: %w", err)
	}

	if count == 0 {
		if _, err := s.db.Exec(schemaSQL); err != nil {
			return fmt.Errorf("store: apply schema: %w", err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
			SchemaVersion, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("store: record schema version: %w", err)
		}
		s.logger.Info("initialized store schema", "version", SchemaVersion)
		return nil
	}

	var found int
	if err := s.db.Get(&found, `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`); err != nil {
		return fmt.Errorf("store: read schema version: %w", err)
	}
	if found != SchemaVersion {
		return &SchemaMismatchError{Found: found, Expected: SchemaVersion}
	}
	return nil
}

// withTx runs fn inside a single transaction, committing on success and
// rolling back on error or panic. Standalone multi-statement mutations (a
// single UpsertNote, ReplaceLinks, or UpsertGraphMetric) funnel through this.
func (s *Store) withTx(fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// Tx is a unit-of-work handle for running a batch of Store mutations inside
// one transaction — e.g. every note/link/tag write produced by a single
// vault scan, or every link-target update produced by one resolve pass.
// The caller must call Commit or Rollback.
type Tx struct {
	tx *sqlx.Tx
}

// Begin starts a caller-managed transaction.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction. Calling it after a successful Commit is
// a no-op error from database/sql that callers may safely ignore via defer.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

func nowUTC() time.Time { return time.Now().UTC() }

func timeString(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTimeString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
