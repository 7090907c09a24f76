package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type CategoryStore struct {
	db *sqlx.DB
}

func (cs *CategoryStore) Upsert(ctx context.Context, categories []Category) error {
	query := `
	INSERT INTO omie_categories (omie_code, name, kind, inactive, updated_at)
	VALUES (:omie_code, :name, :kind, :inactive, now())
	ON CONFLICT (omie_code) DO UPDATE SET
		name = EXCLUDED.name,
		kind = EXCLUDED.kind,
		inactive = EXCLUDED.inactive,
		updated_at = now()`

	for _, batch := range chunk(categories, 500) {
		if _, err := cs.db.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to upsert categories batch: %w", err)
		}
	}
	return nil
}

func (cs *CategoryStore) GetAll(ctx context.Context) ([]Category, error) {
	query := `SELECT omie_code, name, kind, inactive, updated_at FROM omie_categories`

	var rows []Category
	if err := cs.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return rows, nil
}
