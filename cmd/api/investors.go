package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triadeinvest/omie-sync/internal/finance"
	"github.com/triadeinvest/omie-sync/internal/response"
)

type ListInvestorOperationsResponse = response.APIResponse[[]finance.InvestorOperation]

// @Summary		List an investor's operations
// @Description	Operations visible to the investor (resolved via their ERP client codes), with invested, realized and cost figures inlined.
// @Tags			Investors
// @Produce		json
// @Param			document	path		string							true	"Investor CPF or CNPJ, masked or unmasked"
// @Success		200			{object}	ListInvestorOperationsResponse	"Operations with financials"
// @Failure		404			{object}	response.ErrorResponse			"Investor has no ERP client code"
// @Router			/investors/{document}/operations [get]
func (app *application) handleListInvestorOperations(w http.ResponseWriter, r *http.Request) {
	document := chi.URLParam(r, "document")
	if document == "" {
		writeJSONError(w, http.StatusBadRequest, response.CodeBadRequest, "missing investor document")
		return
	}

	data, err := app.finance.ListOperationsForInvestor(r.Context(), document)
	if err != nil {
		app.writeFinanceError(w, err)
		return
	}

	resp := &ListInvestorOperationsResponse{
		Success: true,
		Data:    data,
		Message: "Investor operations listed",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, response.CodeInternal, "failed to write response")
	}
}
