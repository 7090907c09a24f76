package ingest

import (
	"context"
	"time"

	"github.com/triadeinvest/omie-sync/internal/logger"
	"github.com/triadeinvest/omie-sync/internal/omie"
	"github.com/triadeinvest/omie-sync/internal/store"
)

// Fetcher is the paged-listing surface of the ERP client.
type Fetcher interface {
	FetchAllPages(ctx context.Context, req omie.PagedRequest) (omie.PagedResult, error)
}

// Service owns the entity sync jobs: each one maps a single ERP resource (or
// the operations spreadsheet) onto a single storage table via upsert, bounded
// by a per-source checkpoint.
type Service struct {
	fetcher Fetcher
	storage *store.Storage
	log     *logger.Logger

	sheetPath string
	now       func() time.Time
}

func NewService(fetcher Fetcher, storage *store.Storage, log *logger.Logger, sheetPath string) *Service {
	return &Service{
		fetcher:   fetcher,
		storage:   storage,
		log:       log,
		sheetPath: sheetPath,
		now:       time.Now,
	}
}

// Options tweaks a single job run.
type Options struct {
	// FullSync ignores the checkpoint and fetches the source's whole
	// window.
	FullSync bool
	// ForceDays overrides the fetch window lower bound to now minus this
	// many days.
	ForceDays int
}

// JobResult reports what one sync job did. ZeroAmount counts rows whose
// monetary value was missing or non-numeric and got defaulted to zero; the
// count keeps that data-quality compromise visible instead of silent.
type JobResult struct {
	Fetched    int       `json:"fetched"`
	Pages      int       `json:"pages"`
	Upserted   int       `json:"upserted"`
	Dropped    int       `json:"dropped"`
	ZeroAmount int       `json:"zero_amount"`
	Since      time.Time `json:"since"`
	NewSyncAt  time.Time `json:"new_sync_at"`
}
