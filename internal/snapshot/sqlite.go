package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"callops-platform/internal/callops"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the snapshot in a single-row key/value table inside a
// local SQLite file. Durable like the file backend, but survives partial
// writes without the rename dance.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file and ensures the snapshot
// table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	// A local snapshot store has exactly one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS app_snapshots (
			key        TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (callops.State, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM app_snapshots WHERE key = ?`, Key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return callops.State{}, false, nil
	}
	if err != nil {
		return callops.State{}, false, fmt.Errorf("sqlite load: %w", err)
	}
	st, err := decode(data)
	if err != nil {
		return callops.State{}, false, err
	}
	return st, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st callops.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		Key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
