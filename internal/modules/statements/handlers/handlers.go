// Package handlers provides HTTP handlers for financial statements.
package handlers

import (
	"net/http"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/aristath/finsight/internal/modules/statements"
	"github.com/rs/zerolog"
)

// Handler handles statement HTTP requests
type Handler struct {
	service *statements.Service
	log     zerolog.Logger
}

// NewHandler creates a new statements handler
func NewHandler(service *statements.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "statements").Logger(),
	}
}

// IncomeStatementResponse is the body of GET /api/py/get_income_statement
type IncomeStatementResponse struct {
	Symbol          string           `json:"symbol"`
	IncomeStatement financials.Table `json:"income_statement"`
}

// HandleGetIncomeStatement handles GET /api/py/get_income_statement
func (h *Handler) HandleGetIncomeStatement(w http.ResponseWriter, r *http.Request) {
	symbol, err := api.Symbol(r)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	freq := financials.Frequency(r.URL.Query().Get("freq"))

	table, err := h.service.IncomeStatement(r.Context(), symbol, freq)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	api.WriteJSON(w, r, http.StatusOK, IncomeStatementResponse{
		Symbol:          symbol,
		IncomeStatement: table,
	})
}
