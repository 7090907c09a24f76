package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/triadeinvest/omie-sync/internal/ingest"
	"github.com/triadeinvest/omie-sync/internal/response"
	"github.com/triadeinvest/omie-sync/internal/store"
)

type RunFullSyncResponse = response.APIResponse[ingest.RunReport]
type RunEntitySyncResponse = response.APIResponse[ingest.JobResult]
type ListCheckpointsResponse = response.APIResponse[[]store.SyncCheckpoint]

// @Summary		Run the full sync
// @Description	Runs every entity sync job in sequence, best-effort per source. Always returns 200; inspect the steps for per-job outcomes.
// @Tags			Sync
// @Produce		json
// @Success		200	{object}	RunFullSyncResponse	"Full sync report"
// @Router			/sync [post]
func (app *application) handleRunFullSync(w http.ResponseWriter, r *http.Request) {
	report := app.ingest.RunFullSync(r.Context())

	resp := &RunFullSyncResponse{
		Success: true,
		Data:    report,
		Message: "Full sync finished, inspect steps for per-job outcomes",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
	}
}

// @Summary		Run one entity sync job
// @Description	Runs a single named sync job. Partial failures are embedded in the body, not the HTTP status.
// @Tags			Sync
// @Produce		json
// @Param			entity	path		string					true	"Entity name (e.g. omie_mf_movements)"
// @Param			full	query		bool					false	"Ignore the checkpoint and fetch the full window"
// @Param			days	query		int						false	"Force the window lower bound to now minus this many days"
// @Success		200		{object}	RunEntitySyncResponse	"Job result"
// @Failure		404		{object}	response.ErrorResponse	"Unknown entity"
// @Router			/sync/{entity} [post]
func (app *application) handleRunEntitySync(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	opts := ingest.Options{}
	if full, err := strconv.ParseBool(r.URL.Query().Get("full")); err == nil {
		opts.FullSync = full
	}
	if days, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && days > 0 {
		opts.ForceDays = days
	}

	result, err := app.ingest.RunEntitySync(r.Context(), entity, opts)
	if errors.Is(err, ingest.ErrUnknownEntity) {
		writeJSONError(w, http.StatusNotFound, response.CodeNotFound, err.Error())
		return
	}
	if err != nil {
		// Job failures still answer 200 so schedulers treating non-2xx as
		// transport trouble do not retry a deterministic failure.
		resp := &RunEntitySyncResponse{Success: false, Message: err.Error()}
		if werr := writeJSON(w, http.StatusOK, resp); werr != nil {
			writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
		}
		return
	}

	resp := &RunEntitySyncResponse{
		Success: true,
		Data:    result,
		Message: "Sync job finished",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
	}
}

// @Summary		List sync checkpoints
// @Description	Returns the last synchronized timestamp per data source.
// @Tags			Sync
// @Produce		json
// @Success		200	{object}	ListCheckpointsResponse	"Checkpoints"
// @Failure		500	{object}	response.ErrorResponse	"Failed to list checkpoints"
// @Router			/sync/checkpoints [get]
func (app *application) handleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	rows, err := app.store.Checkpoints.List(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, err.Error())
		return
	}

	resp := &ListCheckpointsResponse{
		Success: true,
		Data:    rows,
		Message: "Checkpoints listed",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
	}
}
