package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type PayableStore struct {
	db *sqlx.DB
}

func (ps *PayableStore) Upsert(ctx context.Context, payables []Payable) error {
	query := `
	INSERT INTO omie_payables (
		omie_entry_code, client_code, project_code, category_code, amount,
		status, issue_date, due_date, payment_date, document_number,
		raw_payload, updated_at
	) VALUES (
		:omie_entry_code, :client_code, :project_code, :category_code, :amount,
		:status, :issue_date, :due_date, :payment_date, :document_number,
		:raw_payload, now()
	)
	ON CONFLICT (omie_entry_code) DO UPDATE SET
		client_code = EXCLUDED.client_code,
		project_code = EXCLUDED.project_code,
		category_code = EXCLUDED.category_code,
		amount = EXCLUDED.amount,
		status = EXCLUDED.status,
		issue_date = EXCLUDED.issue_date,
		due_date = EXCLUDED.due_date,
		payment_date = EXCLUDED.payment_date,
		document_number = EXCLUDED.document_number,
		raw_payload = EXCLUDED.raw_payload,
		updated_at = now()`

	for _, batch := range chunk(payables, 200) {
		if _, err := ps.db.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to upsert payables batch: %w", err)
		}
	}
	return nil
}
