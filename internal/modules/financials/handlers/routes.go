package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers basic financials routes under the /api/py prefix
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_basic_financials", h.HandleGetBasicFinancials)
	r.Get("/get_basic_financials_history", h.HandleGetBasicFinancialsHistory)
}
