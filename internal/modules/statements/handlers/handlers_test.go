package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/aristath/finsight/internal/modules/statements"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	raw financials.RawSeries
	err error
}

func (f *fakeSource) IncomeStatement(ctx context.Context, symbol string, freq financials.Frequency) (financials.RawSeries, error) {
	return f.raw, f.err
}

func setupRouter(src *fakeSource) *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(statements.NewService(src, logger), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestHandleGetIncomeStatement(t *testing.T) {
	router := setupRouter(&fakeSource{raw: financials.RawSeries{
		"quarterly": {"TotalRevenue": {{Period: "2024-06-30", Value: 85777e6}}},
	}})

	req := httptest.NewRequest("GET", "/get_income_statement?symbol=AAPL&freq=quarterly", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response IncomeStatementResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "AAPL", response.Symbol)
	assert.Equal(t, 85777e6, response.IncomeStatement["2024-06-30"]["TotalRevenue"])
}

func TestHandleGetIncomeStatement_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		src    *fakeSource
		status int
		detail string
	}{
		{"missing symbol", "/get_income_statement", &fakeSource{}, http.StatusBadRequest, "Symbol parameter is required."},
		{"bad freq", "/get_income_statement?symbol=AAPL&freq=weekly", &fakeSource{}, http.StatusBadRequest, ""},
		{"no data", "/get_income_statement?symbol=ZZZZ", &fakeSource{raw: financials.RawSeries{}}, http.StatusNotFound, ""},
		{"provider down", "/get_income_statement?symbol=AAPL", &fakeSource{err: &domain.StatusError{Provider: "yahoo", StatusCode: 502}}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(tt.src)
			req := httptest.NewRequest("GET", tt.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.detail != "" {
				assert.JSONEq(t, `{"detail":"`+tt.detail+`"}`, w.Body.String())
			}
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewRouter()
	handler := NewHandler(statements.NewService(&fakeSource{}, zerolog.Nop()), zerolog.Nop())

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	})
}
