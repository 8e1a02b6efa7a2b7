package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"callops-platform/internal/callops"
	"callops-platform/pkg/utils"
)

// PostgresStore keeps the snapshot in an app_snapshots key/value table. Still
// one document under one key; postgres is just the medium.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the snapshot table when missing. Called once at
// startup.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS app_snapshots (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) (callops.State, bool, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM app_snapshots WHERE key = $1`, Key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return callops.State{}, false, nil
	}
	if err != nil {
		return callops.State{}, false, fmt.Errorf("postgres load: %w", err)
	}
	st, err := decode(data)
	if err != nil {
		return callops.State{}, false, err
	}
	return st, true, nil
}

func (p *PostgresStore) Save(ctx context.Context, st callops.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	return utils.WithTx(ctx, p.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_snapshots (key, data, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
			Key, data, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("postgres save: %w", err)
		}
		return nil
	})
}
