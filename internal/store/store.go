// Package store persists saved query documents in SQLite.
//
// Documents are canonicalized before storage: the filter clause at the
// store's filter keypath is simplified, and the whole document is encoded
// as canonical JSON. Writes are idempotent by content hash: saving a
// structurally equal document returns the existing record.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tangram-data/mql/clause"
)

//go:embed schema.sql
var schemaSQL string

// DefaultFilterPath is the conventional location of the filter clause in a
// query document.
var DefaultFilterPath = clause.Path("query", "filter")

// Store provides durable storage for saved query documents.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB

	// FilterPath locates the filter clause that is simplified on save.
	// Defaults to DefaultFilterPath; documents without a clause at this
	// path are stored as-is.
	FilterPath clause.Keypath
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single pooled connection
	// avoids SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, FilterPath: DefaultFilterPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// nextSeq returns the next logical clock value for inserts.
func (s *Store) nextSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(created_seq) FROM saved_queries").Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("read max seq: %w", err)
	}
	return seq.Int64 + 1, nil
}
