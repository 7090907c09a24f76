package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ProjectStore struct {
	db *sqlx.DB
}

func (ps *ProjectStore) Upsert(ctx context.Context, projects []Project) error {
	query := `
	INSERT INTO omie_projects (omie_internal_code, omie_code, name, inactive, updated_at)
	VALUES (:omie_internal_code, :omie_code, :name, :inactive, now())
	ON CONFLICT (omie_internal_code) DO UPDATE SET
		omie_code = EXCLUDED.omie_code,
		name = EXCLUDED.name,
		inactive = EXCLUDED.inactive,
		updated_at = now()`

	for _, batch := range chunk(projects, 500) {
		if _, err := ps.db.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to upsert projects batch: %w", err)
		}
	}
	return nil
}

func (ps *ProjectStore) GetByInternalCodes(ctx context.Context, codes []int64) ([]Project, error) {
	query := `
	SELECT omie_internal_code, omie_code, name, inactive, updated_at
	FROM omie_projects
	WHERE omie_internal_code = ANY($1)`

	var rows []Project
	if err := ps.db.SelectContext(ctx, &rows, query, pq.Array(codes)); err != nil {
		return nil, fmt.Errorf("failed to load projects by internal codes: %w", err)
	}
	return rows, nil
}

func (ps *ProjectStore) GetAll(ctx context.Context) ([]Project, error) {
	query := `SELECT omie_internal_code, omie_code, name, inactive, updated_at FROM omie_projects`

	var rows []Project
	if err := ps.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return rows, nil
}
