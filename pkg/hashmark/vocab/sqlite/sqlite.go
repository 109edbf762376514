// Package sqlite persists the label vocabulary in a SQLite database,
// useful when several tools share one vocabulary.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed vocabulary store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path with WAL mode
// enabled and the labels table in place.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary db: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open vocabulary db: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS labels (label TEXT PRIMARY KEY)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init vocabulary schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns all labels in lexicographic order.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT label FROM labels ORDER BY label")
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return labels, nil
}

// Save upserts labels in one transaction. The vocabulary only ever
// grows, so existing rows are left alone.
func (s *Store) Save(ctx context.Context, labels []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO labels (label) VALUES (?) ON CONFLICT(label) DO NOTHING")
	if err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	defer stmt.Close()

	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, l); err != nil {
			return fmt.Errorf("save vocabulary label %q: %w", l, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}
