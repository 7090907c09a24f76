package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/triadeinvest/omie-sync/internal/omie"
)

// Sync entity names, in orchestration order.
const (
	EntityOperationsSheet = "operations_sheet"
	EntityCategories      = "omie_categories"
	EntityParties         = "omie_parties"
	EntityProjects        = "omie_projects"
	EntityPayables        = "omie_payables"
	EntityMovements       = "omie_mf_movements"
)

var ErrUnknownEntity = errors.New("unknown sync entity")

// omieJob describes one ERP resource. sinceParam is empty for endpoints that
// ignore or misbehave with an updated-since filter; those jobs always fetch
// the full listing and rely on upsert idempotency.
type omieJob struct {
	source        string
	endpoint      string
	call          string
	pageParam     string
	pageSizeParam string
	pageSize      int
	lookbackDays  int
	sinceParam    string
}

var (
	categoriesJob = omieJob{
		source: EntityCategories, endpoint: "geral/categorias/", call: "ListarCategorias",
		pageSizeParam: "registros_por_pagina", pageSize: 500, lookbackDays: 30,
	}
	partiesJob = omieJob{
		source: EntityParties, endpoint: "geral/clientes/", call: "ListarClientes",
		pageSizeParam: "registros_por_pagina", pageSize: 500, lookbackDays: 30,
		sinceParam: "filtrar_por_data_de",
	}
	projectsJob = omieJob{
		source: EntityProjects, endpoint: "geral/projetos/", call: "ListarProjetos",
		pageSizeParam: "registros_por_pagina", pageSize: 500, lookbackDays: 30,
	}
	payablesJob = omieJob{
		source: EntityPayables, endpoint: "financas/contapagar/", call: "ListarContasPagar",
		pageSizeParam: "registros_por_pagina", pageSize: 200, lookbackDays: 14,
		sinceParam: "filtrar_por_data_de",
	}
	// The movements endpoint ignores date filters, so the job always fetches
	// the full listing inside the safety cap.
	movementsJob = omieJob{
		source: EntityMovements, endpoint: "financas/mf/", call: "ListarMovimentos",
		pageParam: "nPagina", pageSizeParam: "nRegPorPagina", pageSize: 500, lookbackDays: 3,
	}
)

// RunEntitySync runs one named sync job.
func (s *Service) RunEntitySync(ctx context.Context, entity string, opts Options) (JobResult, error) {
	switch entity {
	case EntityOperationsSheet:
		return s.importOperationsSheet(ctx, opts)
	case EntityCategories:
		return s.syncCategories(ctx, opts)
	case EntityParties:
		return s.syncParties(ctx, opts)
	case EntityProjects:
		return s.syncProjects(ctx, opts)
	case EntityPayables:
		return s.syncPayables(ctx, opts)
	case EntityMovements:
		return s.syncMovements(ctx, opts)
	}
	return JobResult{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
}

func (s *Service) syncCategories(ctx context.Context, opts Options) (JobResult, error) {
	return s.runOmieJob(ctx, categoriesJob, opts, func(items []omie.Record) (int, upsertFunc, decodeStats) {
		rows, stats := decodeCategories(items)
		return len(rows), func(ctx context.Context) error { return s.storage.Categories.Upsert(ctx, rows) }, stats
	})
}

func (s *Service) syncParties(ctx context.Context, opts Options) (JobResult, error) {
	return s.runOmieJob(ctx, partiesJob, opts, func(items []omie.Record) (int, upsertFunc, decodeStats) {
		rows, stats := decodeParties(items)
		return len(rows), func(ctx context.Context) error { return s.storage.Parties.Upsert(ctx, rows) }, stats
	})
}

func (s *Service) syncProjects(ctx context.Context, opts Options) (JobResult, error) {
	return s.runOmieJob(ctx, projectsJob, opts, func(items []omie.Record) (int, upsertFunc, decodeStats) {
		rows, stats := decodeProjects(items)
		return len(rows), func(ctx context.Context) error { return s.storage.Projects.Upsert(ctx, rows) }, stats
	})
}

func (s *Service) syncPayables(ctx context.Context, opts Options) (JobResult, error) {
	return s.runOmieJob(ctx, payablesJob, opts, func(items []omie.Record) (int, upsertFunc, decodeStats) {
		rows, stats := decodePayables(items)
		return len(rows), func(ctx context.Context) error { return s.storage.Payables.Upsert(ctx, rows) }, stats
	})
}

func (s *Service) syncMovements(ctx context.Context, opts Options) (JobResult, error) {
	return s.runOmieJob(ctx, movementsJob, opts, func(items []omie.Record) (int, upsertFunc, decodeStats) {
		rows, stats := decodeMovements(items)
		return len(rows), func(ctx context.Context) error { return s.storage.Movements.Upsert(ctx, rows) }, stats
	})
}

type upsertFunc func(ctx context.Context) error

type decodeBatch func(items []omie.Record) (count int, upsert upsertFunc, stats decodeStats)

// runOmieJob is the shared job template: read checkpoint, fetch pages, decode
// tolerant of field-spelling drift, drop keyless records, upsert in batches,
// advance the checkpoint.
func (s *Service) runOmieJob(ctx context.Context, job omieJob, opts Options, decode decodeBatch) (JobResult, error) {
	const component = "SyncJob"
	now := s.now()

	since, prev, err := s.window(ctx, job.source, job.lookbackDays, opts, now)
	if err != nil {
		return JobResult{}, err
	}

	baseParams := map[string]any{job.pageSizeParam: job.pageSize}
	if job.sinceParam != "" && !opts.FullSync && !since.IsZero() {
		baseParams[job.sinceParam] = since.Format("02/01/2006")
	}

	fetched, err := s.fetcher.FetchAllPages(ctx, omie.PagedRequest{
		Endpoint:   job.endpoint,
		Call:       job.call,
		BaseParams: baseParams,
		PageParam:  job.pageParam,
	})
	if err != nil {
		return JobResult{}, fmt.Errorf("fetch failed for %s: %w", job.source, err)
	}

	count, upsert, stats := decode(fetched.Items)
	if stats.dropped > 0 {
		s.log.Warn(component, "Dropped keyless records: source=%s dropped=%d", job.source, stats.dropped)
	}
	if stats.zeroAmount > 0 {
		s.log.Warn(component, "Amounts defaulted to zero: source=%s rows=%d", job.source, stats.zeroAmount)
	}

	if count > 0 {
		if err := upsert(ctx); err != nil {
			return JobResult{}, err
		}
	}

	newSyncAt := checkpointValue(now, stats.maxRecordAt, prev)
	if err := s.storage.Checkpoints.SetLastSyncAt(ctx, job.source, newSyncAt); err != nil {
		return JobResult{}, err
	}

	s.log.Info(component, "Job finished: source=%s fetched=%d pages=%d upserted=%d dropped=%d",
		job.source, len(fetched.Items), fetched.Pages, count, stats.dropped)

	return JobResult{
		Fetched:    len(fetched.Items),
		Pages:      fetched.Pages,
		Upserted:   count,
		Dropped:    stats.dropped,
		ZeroAmount: stats.zeroAmount,
		Since:      since,
		NewSyncAt:  newSyncAt,
	}, nil
}

// window computes the fetch lower bound: forced days, full sync, previous
// checkpoint, or the entity's default lookback, in that order.
func (s *Service) window(ctx context.Context, source string, lookbackDays int, opts Options, now time.Time) (time.Time, *time.Time, error) {
	prev, err := s.storage.Checkpoints.GetLastSyncAt(ctx, source)
	if err != nil {
		return time.Time{}, nil, err
	}

	switch {
	case opts.ForceDays > 0:
		return now.AddDate(0, 0, -opts.ForceDays), prev, nil
	case opts.FullSync:
		return time.Time{}, prev, nil
	case prev != nil:
		return *prev, prev, nil
	}
	return now.AddDate(0, 0, -lookbackDays), prev, nil
}

// checkpointValue advances the checkpoint to min(now, newest record
// timestamp), never behind the previous checkpoint. Using the record
// timestamp instead of completion time closes the window-drift gap a slow job
// would otherwise open.
func checkpointValue(now, maxRecordAt time.Time, prev *time.Time) time.Time {
	v := now
	if !maxRecordAt.IsZero() && maxRecordAt.Before(now) {
		v = maxRecordAt
	}
	if prev != nil && v.Before(*prev) {
		v = *prev
	}
	return v
}
