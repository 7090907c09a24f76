package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/triadeinvest/omie-sync/internal/omie"
	"github.com/triadeinvest/omie-sync/internal/store"
)

var errTestUpsert = errors.New("upsert boom")

// fakeFetcher routes each paged request through a per-call handler, so tests
// can fail or shape individual ERP resources independently.
type fakeFetcher struct {
	handlers map[string]func(req omie.PagedRequest) (omie.PagedResult, error)
	requests []omie.PagedRequest
}

func (f *fakeFetcher) FetchAllPages(_ context.Context, req omie.PagedRequest) (omie.PagedResult, error) {
	f.requests = append(f.requests, req)
	if handler, ok := f.handlers[req.Call]; ok {
		return handler(req)
	}
	return omie.PagedResult{}, nil
}

type memCheckpoints struct {
	values map[string]time.Time
}

func newMemCheckpoints() *memCheckpoints {
	return &memCheckpoints{values: make(map[string]time.Time)}
}

func (m *memCheckpoints) GetLastSyncAt(_ context.Context, source string) (*time.Time, error) {
	if t, ok := m.values[source]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m *memCheckpoints) SetLastSyncAt(_ context.Context, source string, t time.Time) error {
	m.values[source] = t
	return nil
}

func (m *memCheckpoints) List(_ context.Context) ([]store.SyncCheckpoint, error) {
	var out []store.SyncCheckpoint
	for source, t := range m.values {
		out = append(out, store.SyncCheckpoint{Source: source, LastSyncAt: t})
	}
	return out, nil
}

type memCategories struct{ rows map[string]store.Category }

func (m *memCategories) Upsert(_ context.Context, categories []store.Category) error {
	if m.rows == nil {
		m.rows = make(map[string]store.Category)
	}
	for _, c := range categories {
		m.rows[c.OmieCode] = c
	}
	return nil
}

func (m *memCategories) GetAll(_ context.Context) ([]store.Category, error) { return nil, nil }

type memParties struct{ rows map[int64]store.Party }

func (m *memParties) Upsert(_ context.Context, parties []store.Party) error {
	if m.rows == nil {
		m.rows = make(map[int64]store.Party)
	}
	for _, p := range parties {
		m.rows[p.OmieCode] = p
	}
	return nil
}

func (m *memParties) FindByDocument(_ context.Context, _ string) ([]store.Party, error) {
	return nil, nil
}

func (m *memParties) GetByCodes(_ context.Context, _ []int64) ([]store.Party, error) {
	return nil, nil
}

type memProjects struct{ rows map[int64]store.Project }

func (m *memProjects) Upsert(_ context.Context, projects []store.Project) error {
	if m.rows == nil {
		m.rows = make(map[int64]store.Project)
	}
	for _, p := range projects {
		m.rows[p.OmieInternalCode] = p
	}
	return nil
}

func (m *memProjects) GetByInternalCodes(_ context.Context, _ []int64) ([]store.Project, error) {
	return nil, nil
}

func (m *memProjects) GetAll(_ context.Context) ([]store.Project, error) { return nil, nil }

type memPayables struct {
	rows map[int64]store.Payable
	err  error
}

func (m *memPayables) Upsert(_ context.Context, payables []store.Payable) error {
	if m.err != nil {
		return m.err
	}
	if m.rows == nil {
		m.rows = make(map[int64]store.Payable)
	}
	for _, p := range payables {
		m.rows[p.OmieEntryCode] = p
	}
	return nil
}

type memMovements struct{ rows map[string]store.Movement }

func (m *memMovements) Upsert(_ context.Context, movements []store.Movement) error {
	if m.rows == nil {
		m.rows = make(map[string]store.Movement)
	}
	for _, mv := range movements {
		m.rows[mv.CodMovCC] = mv
	}
	return nil
}

func (m *memMovements) ProjectCodesForClients(_ context.Context, _ []int64) ([]int64, error) {
	return nil, nil
}

func (m *memMovements) GetByProjectCodes(_ context.Context, _ []int64) ([]store.Movement, error) {
	return nil, nil
}

type memOperations struct{ rows map[string]store.Operation }

func (m *memOperations) Upsert(_ context.Context, operations []store.Operation) error {
	if m.rows == nil {
		m.rows = make(map[string]store.Operation)
	}
	for _, op := range operations {
		m.rows[op.Name] = op
	}
	return nil
}

func (m *memOperations) GetByID(_ context.Context, _ int64) (*store.Operation, error) {
	return nil, errors.New("not implemented")
}

func (m *memOperations) GetAll(_ context.Context) ([]store.Operation, error) { return nil, nil }

func (m *memOperations) GetByNames(_ context.Context, _ []string) ([]store.Operation, error) {
	return nil, nil
}

type testStorage struct {
	checkpoints *memCheckpoints
	categories  *memCategories
	parties     *memParties
	projects    *memProjects
	payables    *memPayables
	movements   *memMovements
	operations  *memOperations
	storage     *store.Storage
}

func newTestStorage() *testStorage {
	ts := &testStorage{
		checkpoints: newMemCheckpoints(),
		categories:  &memCategories{},
		parties:     &memParties{},
		projects:    &memProjects{},
		payables:    &memPayables{},
		movements:   &memMovements{},
		operations:  &memOperations{},
	}
	ts.storage = &store.Storage{
		Checkpoints: ts.checkpoints,
		Categories:  ts.categories,
		Parties:     ts.parties,
		Projects:    ts.projects,
		Payables:    ts.payables,
		Movements:   ts.movements,
		Operations:  ts.operations,
	}
	return ts
}
