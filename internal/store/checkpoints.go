package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type CheckpointStore struct {
	db *sqlx.DB
}

func (cs *CheckpointStore) GetLastSyncAt(ctx context.Context, source string) (*time.Time, error) {
	query := `SELECT last_sync_at FROM sync_checkpoints WHERE source = $1`

	var last time.Time
	err := cs.db.GetContext(ctx, &last, query, source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint for %s: %w", source, err)
	}
	return &last, nil
}

func (cs *CheckpointStore) SetLastSyncAt(ctx context.Context, source string, t time.Time) error {
	query := `
	INSERT INTO sync_checkpoints (source, last_sync_at, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (source) DO UPDATE SET
		last_sync_at = EXCLUDED.last_sync_at,
		updated_at = now()`

	if _, err := cs.db.ExecContext(ctx, query, source, t); err != nil {
		return fmt.Errorf("failed to write checkpoint for %s: %w", source, err)
	}
	return nil
}

func (cs *CheckpointStore) List(ctx context.Context) ([]SyncCheckpoint, error) {
	query := `SELECT source, last_sync_at, updated_at FROM sync_checkpoints ORDER BY source`

	var rows []SyncCheckpoint
	if err := cs.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	return rows, nil
}
