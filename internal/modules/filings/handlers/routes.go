package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers filing routes under the /api/py prefix
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_sec_filing", h.HandleGetSecFiling)
	r.Get("/get_10k_section", h.HandleGet10KSection)
}
