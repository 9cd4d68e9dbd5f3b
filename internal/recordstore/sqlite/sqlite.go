package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"resolver/internal/domain"
	"resolver/internal/entity"
	"resolver/internal/recordstore"
)

// Schema creates the record cache table. Records keep the position they were
// stored at so snapshots come back in the order the backend returned them.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
	entity_type TEXT    NOT NULL,
	position    INTEGER NOT NULL,
	id          TEXT    NOT NULL,
	body        TEXT    NOT NULL,
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (entity_type, position)
);
CREATE INDEX IF NOT EXISTS idx_records_id ON records(entity_type, id);
`

// Storage caches records in a SQLite database.
type Storage struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	// One connection serialises writes; it also keeps a ":memory:" database
	// alive for the store's lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Records returns the records of type t in stored order.
func (s *Storage) Records(ctx context.Context, t domain.EntityType) ([]domain.Record, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: entity type %q", recordstore.ErrInvalidInput, t)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE entity_type = ? ORDER BY position`, string(t))
	if err != nil {
		return nil, fmt.Errorf("sqlite: query %s records: %w", t, err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s record: %w", t, err)
		}
		var rec domain.Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("sqlite: decode %s record: %w", t, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: read %s records: %w", t, err)
	}
	return out, nil
}

// Replace swaps every stored record of type t for recs in one transaction.
// Nil records are skipped.
func (s *Storage) Replace(ctx context.Context, t domain.EntityType, recs []domain.Record) error {
	if !t.Valid() {
		return fmt.Errorf("%w: entity type %q", recordstore.ErrInvalidInput, t)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE entity_type = ?`, string(t)); err != nil {
		return fmt.Errorf("sqlite: clear %s records: %w", t, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (entity_type, position, id, body, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	pos := 0
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: encode %s record: %v", recordstore.ErrInvalidInput, t, err)
		}
		if _, err := stmt.ExecContext(ctx, string(t), pos, entity.ID(rec, t), string(body), now); err != nil {
			return fmt.Errorf("sqlite: insert %s record: %w", t, err)
		}
		pos++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// UpdatedAt returns when records of type t were last replaced, or the zero
// time when none are stored.
func (s *Storage) UpdatedAt(ctx context.Context, t domain.EntityType) (time.Time, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(updated_at) FROM records WHERE entity_type = ?`, string(t)).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: read %s update time: %w", t, err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Unix(ts.Int64, 0), nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
