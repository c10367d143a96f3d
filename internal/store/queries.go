package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/filter"
	"github.com/tangram-data/mql/ir"
)

// ErrNotFound is returned when a saved query does not exist.
var ErrNotFound = errors.New("saved query not found")

// SavedQuery is a stored query document with its identity metadata.
type SavedQuery struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hash     string `json:"hash"`
	Document ir.Map `json:"document"`
	Seq      int64  `json:"seq"`
}

// SaveQuery canonicalizes and persists a query document. The filter clause
// at the store's FilterPath is simplified first, so stored documents carry
// canonical filters. Idempotent: saving a document structurally equal to an
// existing one returns the existing record, original name included.
func (s *Store) SaveQuery(ctx context.Context, name string, doc ir.Map) (SavedQuery, error) {
	canonical, err := s.canonicalize(doc)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save query: %w", err)
	}

	hash, err := ir.QueryHash(canonical)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save query: %w", err)
	}

	document, err := ir.MarshalCanonical(canonical)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save query: %w", err)
	}

	seq, err := s.nextSeq(ctx)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save query: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_queries (id, name, content_hash, document, created_seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`, id, name, hash, string(document), seq)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save query: %w", err)
	}

	// The insert may have been a no-op on conflict; read back whichever
	// record owns the hash.
	return s.getByHash(ctx, hash)
}

// canonicalize simplifies the filter clause at FilterPath, when present.
func (s *Store) canonicalize(doc ir.Map) (ir.Map, error) {
	path := s.FilterPath
	if len(path) == 0 {
		path = DefaultFilterPath
	}

	existing, ok := clause.GetAt(doc, path)
	if !ok || !clause.IsClause(existing) {
		return doc, nil
	}

	updated, err := clause.WithAt(doc, path, filter.Simplify(existing))
	if err != nil {
		return nil, err
	}
	return updated.(ir.Map), nil
}

// GetQuery returns a saved query by id. Returns ErrNotFound if absent.
func (s *Store) GetQuery(ctx context.Context, id string) (SavedQuery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, content_hash, document, created_seq
		FROM saved_queries
		WHERE id = ?
	`, id)
	return scanSavedQuery(row)
}

func (s *Store) getByHash(ctx context.Context, hash string) (SavedQuery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, content_hash, document, created_seq
		FROM saved_queries
		WHERE content_hash = ?
	`, hash)
	return scanSavedQuery(row)
}

// ListQueries returns all saved queries in deterministic order:
// created_seq ASC with id as tiebreaker.
func (s *Store) ListQueries(ctx context.Context) ([]SavedQuery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content_hash, document, created_seq
		FROM saved_queries
		ORDER BY created_seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	queries := []SavedQuery{}
	for rows.Next() {
		q, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}

	return queries, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row rowScanner) (SavedQuery, error) {
	var q SavedQuery
	var document string

	err := row.Scan(&q.ID, &q.Name, &q.Hash, &document, &q.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedQuery{}, ErrNotFound
	}
	if err != nil {
		return SavedQuery{}, fmt.Errorf("scan saved query: %w", err)
	}

	doc, err := ir.DecodeDocument([]byte(document))
	if err != nil {
		return SavedQuery{}, fmt.Errorf("decode saved document: %w", err)
	}
	q.Document = doc

	return q, nil
}
