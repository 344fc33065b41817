// Package handlers provides HTTP handlers for SEC filings.
package handlers

import (
	"net/http"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/modules/filings"
	"github.com/rs/zerolog"
)

// Handler handles filing HTTP requests
type Handler struct {
	service *filings.Service
	log     zerolog.Logger
}

// NewHandler creates a new filings handler
func NewHandler(service *filings.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "filings").Logger(),
	}
}

// FilingResponse is the body of GET /api/py/get_sec_filing.
// Filing is an empty object when nothing matched.
type FilingResponse struct {
	Symbol string      `json:"symbol"`
	Filing interface{} `json:"filing"`
}

// SectionResponse is the body of GET /api/py/get_10k_section
type SectionResponse struct {
	HTMLReportURL string `json:"html_report_url"`
	Section       string `json:"section"`
	Text          string `json:"text"`
}

type filingQuery struct {
	Form     string `query:"form" validate:"max=16"`
	FromDate string `query:"from_date" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `query:"to_date" validate:"omitempty,datetime=2006-01-02"`
}

type sectionQuery struct {
	HTMLReportURL string `query:"html_report_url" validate:"required,http_url"`
	Section       string `query:"section" validate:"required"`
}

// HandleGetSecFiling handles GET /api/py/get_sec_filing
func (h *Handler) HandleGetSecFiling(w http.ResponseWriter, r *http.Request) {
	symbol, err := api.Symbol(r)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	query := r.URL.Query()
	q := filingQuery{
		Form:     query.Get("form"),
		FromDate: query.Get("from_date"),
		ToDate:   query.Get("to_date"),
	}
	if err := api.Validate(q); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	latest, err := h.service.LatestFiling(r.Context(), r.Header.Get(api.HeaderFinnhubKey), filings.FilingQuery{
		Symbol: symbol,
		Form:   q.Form,
		From:   q.FromDate,
		To:     q.ToDate,
	})
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	response := FilingResponse{Symbol: symbol, Filing: struct{}{}}
	if latest != nil {
		response.Filing = latest
	}
	api.WriteJSON(w, r, http.StatusOK, response)
}

// HandleGet10KSection handles GET /api/py/get_10k_section
func (h *Handler) HandleGet10KSection(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := sectionQuery{
		HTMLReportURL: query.Get("html_report_url"),
		Section:       query.Get("section"),
	}
	if err := api.Validate(q); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	text, err := h.service.Section(r.Context(), r.Header.Get(api.HeaderSecAPIKey), q.HTMLReportURL, q.Section)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	api.WriteJSON(w, r, http.StatusOK, SectionResponse{
		HTMLReportURL: q.HTMLReportURL,
		Section:       q.Section,
		Text:          text,
	})
}
