// Package handlers provides HTTP handlers for company profiles and news.
package handlers

import (
	"net/http"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/modules/company"
	"github.com/rs/zerolog"
)

// Handler handles company HTTP requests
type Handler struct {
	service *company.Service
	log     zerolog.Logger
}

// NewHandler creates a new company handler
func NewHandler(service *company.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "company").Logger(),
	}
}

// ProfileResponse is the body of GET /api/py/get_company_profile
type ProfileResponse struct {
	Symbol         string `json:"symbol"`
	CompanyProfile string `json:"company_profile"`
}

// NewsResponse is the body of GET /api/py/get_company_news
type NewsResponse struct {
	Symbol string             `json:"symbol"`
	News   []company.NewsItem `json:"news"`
}

type newsQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MaxNews   int    `query:"max_news_num" validate:"min=1,max=100"`
}

// HandleGetCompanyProfile handles GET /api/py/get_company_profile
func (h *Handler) HandleGetCompanyProfile(w http.ResponseWriter, r *http.Request) {
	symbol, err := api.Symbol(r)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	profile, err := h.service.ProfileSummary(r.Context(), r.Header.Get(api.HeaderFinnhubKey), symbol)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	api.WriteJSON(w, r, http.StatusOK, ProfileResponse{Symbol: symbol, CompanyProfile: profile})
}

// HandleGetCompanyNews handles GET /api/py/get_company_news
func (h *Handler) HandleGetCompanyNews(w http.ResponseWriter, r *http.Request) {
	symbol, err := api.Symbol(r)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	maxNews, err := api.IntParam(r, "max_news_num", company.DefaultMaxNews)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	q := newsQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		MaxNews:   maxNews,
	}
	if err := api.Validate(q); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	news, err := h.service.News(r.Context(), r.Header.Get(api.HeaderFinnhubKey), company.NewsQuery{
		Symbol:    symbol,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Max:       q.MaxNews,
	})
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	api.WriteJSON(w, r, http.StatusOK, NewsResponse{Symbol: symbol, News: news})
}
