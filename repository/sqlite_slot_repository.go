package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// sqliteSlotRepository stores slots in a local sqlite file, the on-disk
// counterpart of the browser's key-value storage.
type sqliteSlotRepository struct {
	db *sql.DB
}

// NewSQLiteSlotRepository wraps a connection opened with db.OpenSQLite.
func NewSQLiteSlotRepository(db *sql.DB) SlotRepository {
	return &sqliteSlotRepository{db: db}
}

func (r *sqliteSlotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_slots WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return value, true, nil
}

func (r *sqliteSlotRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set slot %s: %w", key, err)
	}
	return nil
}

func (r *sqliteSlotRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv_slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (r *sqliteSlotRepository) Close() error {
	return r.db.Close()
}
