package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/triadeinvest/omie-sync/internal/finance"
	"github.com/triadeinvest/omie-sync/internal/response"
	"github.com/triadeinvest/omie-sync/internal/store"
)

type GetOperationFinancialResponse = response.APIResponse[finance.Summary]
type GetOperationCostsResponse = response.APIResponse[finance.CostReport]

// @Summary		Operation financial summary
// @Description	Invested capital, expected and realized profit and ROI for one operation.
// @Tags			Operations
// @Produce		json
// @Param			id				path		int								true	"Operation id"
// @Param			expected_roi	query		number							false	"Expected ROI; defaults to the operation's stored value"
// @Success		200				{object}	GetOperationFinancialResponse	"Financial summary"
// @Failure		404				{object}	response.ErrorResponse			"Operation not found"
// @Failure		422				{object}	response.ErrorResponse			"Operation has no matching ERP project"
// @Router			/operations/{id}/financial [get]
func (app *application) handleGetOperationFinancial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, response.CodeBadRequest, "invalid operation id")
		return
	}

	ctx := r.Context()

	roi := decimal.Zero
	if roiParam := r.URL.Query().Get("expected_roi"); roiParam != "" {
		roi, err = decimal.NewFromString(roiParam)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, response.CodeBadRequest, "invalid expected_roi")
			return
		}
	} else {
		op, err := app.store.Operations.GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, response.CodeNotFound, "operation not found")
			return
		}
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, err.Error())
			return
		}
		roi = op.ExpectedROI
	}

	data, err := app.finance.OperationFinancial(ctx, id, roi)
	if err != nil {
		app.writeFinanceError(w, err)
		return
	}

	resp := &GetOperationFinancialResponse{
		Success: true,
		Data:    data,
		Message: "Operation financial summary computed",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
	}
}

// @Summary		Operation cost breakdown
// @Description	Payable totals grouped by category then supplier, descending by amount. Profit-distribution categories are excluded.
// @Tags			Operations
// @Produce		json
// @Param			id	path		int							true	"Operation id"
// @Success		200	{object}	GetOperationCostsResponse	"Cost breakdown"
// @Failure		404	{object}	response.ErrorResponse		"Operation not found"
// @Failure		422	{object}	response.ErrorResponse		"Operation has no matching ERP project"
// @Router			/operations/{id}/costs [get]
func (app *application) handleGetOperationCosts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, response.CodeBadRequest, "invalid operation id")
		return
	}

	data, err := app.finance.OperationCosts(r.Context(), id)
	if err != nil {
		app.writeFinanceError(w, err)
		return
	}

	resp := &GetOperationCostsResponse{
		Success: true,
		Data:    data,
		Message: "Operation cost breakdown computed",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
	}
}

// writeFinanceError maps the engine's sentinel errors onto the structured
// error envelope and an HTTP error status.
func (app *application) writeFinanceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, response.CodeNotFound, "operation not found")
	case errors.Is(err, finance.ErrNoProjectMatch):
		writeJSONError(w, http.StatusUnprocessableEntity, response.CodeNoProjectMatch, err.Error())
	case errors.Is(err, finance.ErrNoClientCode):
		writeJSONError(w, http.StatusNotFound, response.CodeNoClientCode, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, err.Error())
	}
}
