package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/triadeinvest/omie-sync/internal/logger"
	"github.com/triadeinvest/omie-sync/internal/omie"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "operations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const operationsCSV = `nome,status,cidade,uf,roi esperado
Residencial Aurora,Em Obra,Fortaleza,CE,30%
Loteamento Horizonte,Concluido,Eusebio,CE,"22,5"
`

func TestRunFullSyncRunsEveryJobInOrder(t *testing.T) {
	fetcher := &fakeFetcher{handlers: map[string]func(omie.PagedRequest) (omie.PagedResult, error){
		"ListarMovimentos": movementPage(
			omie.Record{"nCodMovCC": float64(1), "nValorMovCC": float64(10)},
		),
	}}
	ts := newTestStorage()
	svc := NewService(fetcher, ts.storage, logger.New("error"), writeTempCSV(t, operationsCSV))

	report := svc.RunFullSync(context.Background())

	require.Len(t, report.Steps, len(fullSyncOrder))
	for i, step := range report.Steps {
		require.Equal(t, fullSyncOrder[i], step.Name)
		require.True(t, step.OK, "step %s failed: %s", step.Name, step.Error)
		require.NotNil(t, step.Result)
	}
	require.False(t, report.FinishedAt.Before(report.StartedAt))

	require.Len(t, ts.operations.rows, 2)
	require.Len(t, ts.movements.rows, 1)
}

func TestRunFullSyncIsolatesFailingJobs(t *testing.T) {
	fetchErr := errors.New("omie unavailable")
	fetcher := &fakeFetcher{handlers: map[string]func(omie.PagedRequest) (omie.PagedResult, error){
		"ListarCategorias": func(omie.PagedRequest) (omie.PagedResult, error) {
			return omie.PagedResult{}, fetchErr
		},
		"ListarClientes": func(omie.PagedRequest) (omie.PagedResult, error) {
			return omie.PagedResult{
				Items: []omie.Record{{"codigo_cliente_omie": float64(1), "razao_social": "Fulano"}},
				Pages: 1,
			}, nil
		},
	}}
	ts := newTestStorage()
	svc := NewService(fetcher, ts.storage, logger.New("error"), writeTempCSV(t, operationsCSV))

	report := svc.RunFullSync(context.Background())

	byName := make(map[string]Step, len(report.Steps))
	for _, step := range report.Steps {
		byName[step.Name] = step
	}

	require.False(t, byName[EntityCategories].OK)
	require.Contains(t, byName[EntityCategories].Error, "omie unavailable")
	require.Nil(t, byName[EntityCategories].Result)

	// The categories failure must not stop the parties job.
	require.True(t, byName[EntityParties].OK)
	require.Len(t, ts.parties.rows, 1)
}

func TestRunStepCapturesPanic(t *testing.T) {
	fetcher := &fakeFetcher{handlers: map[string]func(omie.PagedRequest) (omie.PagedResult, error){
		"ListarProjetos": func(omie.PagedRequest) (omie.PagedResult, error) {
			panic("decoder blew up")
		},
	}}
	ts := newTestStorage()
	svc := NewService(fetcher, ts.storage, logger.New("error"), "")

	step := svc.runStep(context.Background(), EntityProjects)

	require.Equal(t, EntityProjects, step.Name)
	require.False(t, step.OK)
	require.Contains(t, step.Error, "panic: decoder blew up")
	require.Nil(t, step.Result)
}

func TestRunFullSyncAdvancesCheckpoints(t *testing.T) {
	fetcher := &fakeFetcher{}
	ts := newTestStorage()
	svc := NewService(fetcher, ts.storage, logger.New("error"), writeTempCSV(t, operationsCSV))
	svc.now = func() time.Time {
		return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	svc.RunFullSync(context.Background())

	list, err := ts.checkpoints.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(fullSyncOrder))
}
