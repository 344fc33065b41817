// Package handlers provides HTTP handlers for basic financials.
package handlers

import (
	"net/http"
	"strings"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/rs/zerolog"
)

// Handler handles basic financials HTTP requests
type Handler struct {
	service *financials.Service
	log     zerolog.Logger
}

// NewHandler creates a new financials handler
func NewHandler(service *financials.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "financials").Logger(),
	}
}

// SnapshotResponse is the body of GET /api/py/get_basic_financials
type SnapshotResponse struct {
	Symbol     string                 `json:"symbol"`
	Financials map[string]interface{} `json:"financials"`
}

// HistoryResponse is the body of GET /api/py/get_basic_financials_history
type HistoryResponse struct {
	Symbol     string                            `json:"symbol"`
	Frequency  financials.Frequency              `json:"frequency"`
	Financials financials.Table                  `json:"financials"`
	Stats      map[string]financials.SeriesStats `json:"stats,omitempty"`
}

type historyQuery struct {
	Freq      string `query:"freq" validate:"required"`
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// HandleGetBasicFinancials handles GET /api/py/get_basic_financials
func (h *Handler) HandleGetBasicFinancials(w http.ResponseWriter, r *http.Request) {
	symbol, err := api.Symbol(r)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), r.Header.Get(api.HeaderFinnhubKey), symbol, api.SelectedColumns(r))
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	api.WriteJSON(w, r, http.StatusOK, SnapshotResponse{
		Symbol:     symbol,
		Financials: snapshot,
	})
}

// HandleGetBasicFinancialsHistory handles GET /api/py/get_basic_financials_history
func (h *Handler) HandleGetBasicFinancialsHistory(w http.ResponseWriter, r *http.Request) {
	symbol, err := api.Symbol(r)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	query := r.URL.Query()
	q := historyQuery{
		Freq:      query.Get("freq"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if err := api.Validate(q); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	includeStats, err := api.BoolParam(r, "include_stats")
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	freq := financials.Frequency(strings.ToLower(q.Freq))

	table, err := h.service.History(r.Context(), r.Header.Get(api.HeaderFinnhubKey), financials.HistoryQuery{
		Symbol:   symbol,
		Freq:     freq,
		Start:    q.StartDate,
		End:      q.EndDate,
		Selected: api.SelectedColumns(r),
	})
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	response := HistoryResponse{
		Symbol:     symbol,
		Frequency:  freq,
		Financials: table,
	}
	if includeStats {
		response.Stats = financials.Summarize(table)
	}
	api.WriteJSON(w, r, http.StatusOK, response)
}
