package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triadeinvest/omie-sync/internal/omie"
	"github.com/triadeinvest/omie-sync/internal/store"
)

// decodeStats carries the audit counters out of a decode pass. maxRecordAt is
// the newest record-level timestamp observed, used to advance the checkpoint.
type decodeStats struct {
	dropped     int
	zeroAmount  int
	maxRecordAt time.Time
}

func (st *decodeStats) observe(times ...*time.Time) {
	for _, t := range times {
		if t != nil && t.After(st.maxRecordAt) {
			st.maxRecordAt = *t
		}
	}
}

func decodeCategories(items []omie.Record) ([]store.Category, decodeStats) {
	var stats decodeStats
	rows := make([]store.Category, 0, len(items))
	f := omie.CategoryFields

	for _, rec := range items {
		flat := rec.Flatten()
		code := f.Str(flat, "codigo")
		if code == "" {
			stats.dropped++
			continue
		}
		rows = append(rows, store.Category{
			OmieCode: code,
			Name:     f.Str(flat, "descricao"),
			Kind:     f.Str(flat, "tipo"),
			Inactive: f.Str(flat, "inativa") == "S",
		})
	}
	return rows, stats
}

func decodeParties(items []omie.Record) ([]store.Party, decodeStats) {
	var stats decodeStats
	rows := make([]store.Party, 0, len(items))
	f := omie.PartyFields

	for _, rec := range items {
		flat := rec.Flatten()
		code := f.Int64(flat, "codigo_cliente")
		if code == 0 {
			stats.dropped++
			continue
		}
		changedAt := f.Time(flat, "alterado_em")
		stats.observe(changedAt)
		rows = append(rows, store.Party{
			OmieCode: code,
			Name:     f.Str(flat, "razao_social"),
			CpfCnpj:  f.Str(flat, "cpf_cnpj"),
			Email:    f.Str(flat, "email"),
			City:     f.Str(flat, "cidade"),
			State:    f.Str(flat, "estado"),
		})
	}
	return rows, stats
}

func decodeProjects(items []omie.Record) ([]store.Project, decodeStats) {
	var stats decodeStats
	rows := make([]store.Project, 0, len(items))
	f := omie.ProjectFields

	for _, rec := range items {
		flat := rec.Flatten()
		internal := f.Int64(flat, "codigo_interno")
		if internal == 0 {
			stats.dropped++
			continue
		}
		external := f.Str(flat, "codigo")
		if external == "" {
			external = strconv.FormatInt(internal, 10)
		}
		rows = append(rows, store.Project{
			OmieInternalCode: internal,
			OmieCode:         external,
			Name:             f.Str(flat, "nome"),
			Inactive:         f.Str(flat, "inativo") == "S",
		})
	}
	return rows, stats
}

func decodePayables(items []omie.Record) ([]store.Payable, decodeStats) {
	var stats decodeStats
	rows := make([]store.Payable, 0, len(items))
	f := omie.PayableFields

	for _, rec := range items {
		flat := rec.Flatten()
		entryCode := f.Int64(flat, "codigo_lancamento")
		if entryCode == 0 {
			stats.dropped++
			continue
		}

		amount, ok := f.Decimal(flat, "valor")
		if !ok {
			stats.zeroAmount++
			amount = decimal.Zero
		}

		issue := f.Time(flat, "dt_emissao")
		due := f.Time(flat, "dt_venc")
		paid := f.Time(flat, "dt_pagamento")
		stats.observe(issue, paid)

		rows = append(rows, store.Payable{
			OmieEntryCode:  entryCode,
			ClientCode:     f.Int64(flat, "codigo_cliente"),
			ProjectCode:    f.Int64(flat, "codigo_projeto"),
			CategoryCode:   f.Str(flat, "codigo_categoria"),
			Amount:         amount.Abs(),
			Status:         f.Str(flat, "status"),
			IssueDate:      issue,
			DueDate:        due,
			PaymentDate:    paid,
			DocumentNumber: f.Str(flat, "numero_documento"),
			RawPayload:     rec.Raw(),
		})
	}
	return rows, stats
}

func decodeMovements(items []omie.Record) ([]store.Movement, decodeStats) {
	var stats decodeStats
	rows := make([]store.Movement, 0, len(items))
	f := omie.MovementFields

	for _, rec := range items {
		flat := rec.Flatten()

		id := f.Int64(flat, "cod_mov_cc")
		mfKey := movementKey(flat)
		key := mfKey
		if id != 0 {
			key = strconv.FormatInt(id, 10)
		}
		if key == "" {
			stats.dropped++
			continue
		}

		// Canonical amount representation: non-negative magnitude,
		// direction carried by natureza. Decided once, here.
		amount, ok := f.Decimal(flat, "valor")
		if !ok {
			stats.zeroAmount++
			amount = decimal.Zero
		}

		issue := f.Time(flat, "dt_emissao")
		due := f.Time(flat, "dt_venc")
		paid := f.Time(flat, "dt_pagamento")
		stats.observe(issue, paid)

		rows = append(rows, store.Movement{
			CodMovCC:     key,
			MfKey:        mfKey,
			EntryType:    f.Str(flat, "tp_lancamento"),
			Nature:       strings.ToLower(f.Str(flat, "natureza")),
			ClientCode:   f.Int64(flat, "cod_cliente"),
			ProjectCode:  f.Int64(flat, "cod_projeto"),
			CategoryCode: f.Str(flat, "cod_categoria"),
			Amount:       amount.Abs(),
			IssueDate:    issue,
			DueDate:      due,
			PaymentDate:  paid,
			Status:       f.Str(flat, "status"),
			Description:  f.Str(flat, "descricao"),
			RawPayload:   rec.Raw(),
		})
	}
	return rows, stats
}

// movementKey derives the composite fallback key for ledger lines the ERP did
// not assign a movement id: entry type plus title/settlement ids and document
// numbers. Empty when no identifying component beyond the type exists.
func movementKey(flat omie.Record) string {
	f := omie.MovementFields

	ids := []string{}
	if v := f.Int64(flat, "cod_titulo"); v != 0 {
		ids = append(ids, strconv.FormatInt(v, 10))
	}
	if v := f.Int64(flat, "cod_mov_cc"); v != 0 {
		ids = append(ids, strconv.FormatInt(v, 10))
	}
	if v := f.Int64(flat, "cod_baixa"); v != 0 {
		ids = append(ids, strconv.FormatInt(v, 10))
	}
	if v := f.Str(flat, "numero_documento"); v != "" {
		ids = append(ids, v)
	}
	if v := f.Str(flat, "numero_parcela"); v != "" {
		ids = append(ids, v)
	}
	if len(ids) == 0 {
		return ""
	}

	return f.Str(flat, "tp_lancamento") + "|" + strings.Join(ids, "|")
}
