package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type OperationStore struct {
	db *sqlx.DB
}

func (os *OperationStore) Upsert(ctx context.Context, operations []Operation) error {
	query := `
	INSERT INTO operations (
		name, status, city, state, start_date, expected_end_date,
		documents_url, expected_roi, updated_at
	) VALUES (
		:name, :status, :city, :state, :start_date, :expected_end_date,
		:documents_url, :expected_roi, now()
	)
	ON CONFLICT (name) DO UPDATE SET
		status = EXCLUDED.status,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		start_date = EXCLUDED.start_date,
		expected_end_date = EXCLUDED.expected_end_date,
		documents_url = EXCLUDED.documents_url,
		expected_roi = EXCLUDED.expected_roi,
		updated_at = now()`

	for _, batch := range chunk(operations, 200) {
		if _, err := os.db.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to upsert operations batch: %w", err)
		}
	}
	return nil
}

func (os *OperationStore) GetByID(ctx context.Context, id int64) (*Operation, error) {
	query := `
	SELECT id, name, status, city, state, start_date, expected_end_date,
		documents_url, expected_roi, updated_at
	FROM operations WHERE id = $1`

	var op Operation
	err := os.db.GetContext(ctx, &op, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load operation %d: %w", id, err)
	}
	return &op, nil
}

func (os *OperationStore) GetAll(ctx context.Context) ([]Operation, error) {
	query := `
	SELECT id, name, status, city, state, start_date, expected_end_date,
		documents_url, expected_roi, updated_at
	FROM operations ORDER BY name`

	var rows []Operation
	if err := os.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load operations: %w", err)
	}
	return rows, nil
}

func (os *OperationStore) GetByNames(ctx context.Context, names []string) ([]Operation, error) {
	query := `
	SELECT id, name, status, city, state, start_date, expected_end_date,
		documents_url, expected_roi, updated_at
	FROM operations
	WHERE name = ANY($1)
	ORDER BY name`

	var rows []Operation
	if err := os.db.SelectContext(ctx, &rows, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to load operations by names: %w", err)
	}
	return rows, nil
}
