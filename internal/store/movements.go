package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type MovementStore struct {
	db *sqlx.DB
}

func (ms *MovementStore) Upsert(ctx context.Context, movements []Movement) error {
	query := `
	INSERT INTO omie_movements (
		cod_mov_cc, mf_key, tp_lancamento, natureza, cod_cliente, cod_projeto,
		cod_categoria, valor, dt_emissao, dt_venc, dt_pagamento, status,
		descricao, raw_payload, updated_at
	) VALUES (
		:cod_mov_cc, :mf_key, :tp_lancamento, :natureza, :cod_cliente, :cod_projeto,
		:cod_categoria, :valor, :dt_emissao, :dt_venc, :dt_pagamento, :status,
		:descricao, :raw_payload, now()
	)
	ON CONFLICT (cod_mov_cc) DO UPDATE SET
		mf_key = EXCLUDED.mf_key,
		tp_lancamento = EXCLUDED.tp_lancamento,
		natureza = EXCLUDED.natureza,
		cod_cliente = EXCLUDED.cod_cliente,
		cod_projeto = EXCLUDED.cod_projeto,
		cod_categoria = EXCLUDED.cod_categoria,
		valor = EXCLUDED.valor,
		dt_emissao = EXCLUDED.dt_emissao,
		dt_venc = EXCLUDED.dt_venc,
		dt_pagamento = EXCLUDED.dt_pagamento,
		status = EXCLUDED.status,
		descricao = EXCLUDED.descricao,
		raw_payload = EXCLUDED.raw_payload,
		updated_at = now()`

	for _, batch := range chunk(movements, 500) {
		if _, err := ms.db.NamedExecContext(ctx, query, batch); err != nil {
			return fmt.Errorf("failed to upsert movements batch: %w", err)
		}
	}
	return nil
}

// ProjectCodesForClients returns the distinct projects a set of client codes
// has movements against. Together with the project-name resolution this is
// the investor's visibility set.
func (ms *MovementStore) ProjectCodesForClients(ctx context.Context, clientCodes []int64) ([]int64, error) {
	query := `
	SELECT DISTINCT cod_projeto
	FROM omie_movements
	WHERE cod_cliente = ANY($1) AND cod_projeto <> 0`

	var codes []int64
	if err := ms.db.SelectContext(ctx, &codes, query, pq.Array(clientCodes)); err != nil {
		return nil, fmt.Errorf("failed to load project codes for clients: %w", err)
	}
	return codes, nil
}

func (ms *MovementStore) GetByProjectCodes(ctx context.Context, projectCodes []int64) ([]Movement, error) {
	query := `
	SELECT cod_mov_cc, mf_key, tp_lancamento, natureza, cod_cliente, cod_projeto,
		cod_categoria, valor, dt_emissao, dt_venc, dt_pagamento, status,
		descricao, raw_payload, updated_at
	FROM omie_movements
	WHERE cod_projeto = ANY($1)`

	var rows []Movement
	if err := ms.db.SelectContext(ctx, &rows, query, pq.Array(projectCodes)); err != nil {
		return nil, fmt.Errorf("failed to load movements by project codes: %w", err)
	}
	return rows, nil
}
