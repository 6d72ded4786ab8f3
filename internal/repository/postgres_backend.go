package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	kvSchemaQuery = `CREATE TABLE IF NOT EXISTS kv_store (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`
	kvSelectQuery = `SELECT value FROM kv_store WHERE key = $1`
	kvUpsertQuery = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
)

// PostgresBackend stores values in a single key/value table.
type PostgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend constructs a Postgres backend.
func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the key/value table when it does not exist yet.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, kvSchemaQuery); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

// Get implements Backend.
func (b *PostgresBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	if err := b.db.GetContext(ctx, &value, kvSelectQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Backend.
func (b *PostgresBackend) Set(ctx context.Context, key, value string) error {
	if _, err := b.db.ExecContext(ctx, kvUpsertQuery, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close implements Backend.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
