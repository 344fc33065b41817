package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers statement routes under the /api/py prefix
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_income_statement", h.HandleGetIncomeStatement)
}
