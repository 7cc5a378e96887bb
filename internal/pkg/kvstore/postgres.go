package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// PostgresMedium keeps values in a kv_store table of a PostgreSQL database.
type PostgresMedium struct {
	db *database.DB
}

func NewPostgresMedium(ctx context.Context, db *database.DB) (*PostgresMedium, error) {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &PostgresMedium{db: db}, nil
}

func (m *PostgresMedium) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := m.db.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put runs inside a transaction so a failed write leaves the previous value intact.
func (m *PostgresMedium) Put(ctx context.Context, key string, value []byte) error {
	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			key, value)
		if err != nil {
			return fmt.Errorf("failed to put %s: %w", key, err)
		}
		return nil
	})
}

func (m *PostgresMedium) Close() error {
	m.db.Close()
	return nil
}
