package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers company routes under the /api/py prefix
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_company_profile", h.HandleGetCompanyProfile)
	r.Get("/get_company_news", h.HandleGetCompanyNews)
}
