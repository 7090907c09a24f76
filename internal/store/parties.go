package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PartyStore struct {
	db *sqlx.DB
}

func (ps *PartyStore) Upsert(ctx context.Context, parties []Party) error {
	query := `
	INSERT INTO omie_parties (omie_code, name, cpf_cnpj, email, city, state, updated_at)
	VALUES (:omie_code, :name, :cpf_cnpj, :email, :city, :state, now())
	ON CONFLICT (omie_code) DO UPDATE SET
		name = EXCLUDED.name,
		cpf_cnpj = EXCLUDED.cpf_cnpj,
		email = EXCLUDED.email,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		updated_at = now()`

	for _, batch := range chunk(parties, 500) {
		if _, err := ps.db.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to upsert parties batch: %w", err)
		}
	}
	return nil
}

// FindByDocument resolves a CPF/CNPJ that may be stored masked, unmasked or
// inconsistently formatted. Three strategies run in order and the first
// non-empty result wins: exact raw match, digits-only equality, digits
// substring.
func (ps *PartyStore) FindByDocument(ctx context.Context, cpfOrCnpj string) ([]Party, error) {
	raw := strings.TrimSpace(cpfOrCnpj)
	digits := onlyDigits(raw)

	queries := []struct {
		sql string
		arg string
	}{
		{`SELECT omie_code, name, cpf_cnpj, email, city, state, updated_at
		  FROM omie_parties WHERE cpf_cnpj = $1`, raw},
		{`SELECT omie_code, name, cpf_cnpj, email, city, state, updated_at
		  FROM omie_parties WHERE regexp_replace(cpf_cnpj, '\D', '', 'g') = $1`, digits},
		{`SELECT omie_code, name, cpf_cnpj, email, city, state, updated_at
		  FROM omie_parties WHERE regexp_replace(cpf_cnpj, '\D', '', 'g') ILIKE $1`, "%" + digits + "%"},
	}

	for _, q := range queries {
		if q.arg == "" || q.arg == "%%" {
			continue
		}
		var rows []Party
		if err := ps.db.SelectContext(ctx, &rows, q.sql, q.arg); err != nil {
			return nil, fmt.Errorf("failed to look up party by document: %w", err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, nil
}

func (ps *PartyStore) GetByCodes(ctx context.Context, codes []int64) ([]Party, error) {
	query := `
	SELECT omie_code, name, cpf_cnpj, email, city, state, updated_at
	FROM omie_parties
	WHERE omie_code = ANY($1)`

	var rows []Party
	if err := ps.db.SelectContext(ctx, &rows, query, pq.Array(codes)); err != nil {
		return nil, fmt.Errorf("failed to load parties by codes: %w", err)
	}
	return rows, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
