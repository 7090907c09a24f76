package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/triadeinvest/omie-sync/internal/ingest"
	"github.com/triadeinvest/omie-sync/internal/logger"
	"github.com/triadeinvest/omie-sync/internal/store"
)

type stubCheckpoints struct {
	rows []store.SyncCheckpoint
}

func (s *stubCheckpoints) GetLastSyncAt(context.Context, string) (*time.Time, error) {
	return nil, nil
}

func (s *stubCheckpoints) SetLastSyncAt(context.Context, string, time.Time) error { return nil }

func (s *stubCheckpoints) List(context.Context) ([]store.SyncCheckpoint, error) {
	return s.rows, nil
}

func newTestApplication(t *testing.T) *application {
	t.Helper()
	log := logger.New("error")
	return &application{
		store:  &store.Storage{Checkpoints: &stubCheckpoints{rows: []store.SyncCheckpoint{{Source: "omie_parties"}}}},
		ingest: ingest.NewService(nil, nil, log, ""),
		logger: log,
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "available", body["status"])
}

func TestRunEntitySyncUnknownEntityIs404(t *testing.T) {
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/sync/omie_bogus", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.False(t, body.OK)
	require.Equal(t, "NOT_FOUND", body.Error)
}

func TestRunEntitySyncJobFailureStillAnswers200(t *testing.T) {
	// The sheet path is unconfigured, so the job fails deterministically.
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/sync/operations_sheet", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Contains(t, body.Message, "sheet path not configured")
}

func TestListCheckpoints(t *testing.T) {
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sync/checkpoints", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool                   `json:"success"`
		Data    []store.SyncCheckpoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Data, 1)
	require.Equal(t, "omie_parties", body.Data[0].Source)
}
