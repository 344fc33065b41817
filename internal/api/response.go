// Package api holds the request parsing and response helpers shared by
// every HTTP handler.
package api

import (
	"errors"
	"net/http"

	"github.com/aristath/finsight/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Credential headers accepted from callers.
const (
	HeaderFinnhubKey = "X-Finnhub-API-Key"
	HeaderSecAPIKey  = "X-Sec-Api-Key"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON renders data as JSON with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// WriteError maps err to a status code and renders {"detail": ...}.
// Server-side failures are logged; caller mistakes are not.
func WriteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status := StatusFor(err)
	detail := domain.Message(err)

	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		detail = "Missing API key for the upstream provider."
	case status >= http.StatusInternalServerError:
		log.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request failed")
	}

	WriteJSON(w, r, status, ErrorResponse{Detail: detail})
}

// StatusFor returns the HTTP status for an error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMissingCredentials), domain.Unauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
