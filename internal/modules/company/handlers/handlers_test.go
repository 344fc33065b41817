package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/company"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	profiles map[string]finnhub.Profile
	news     []finnhub.Article
	lastKey  string
	from, to string
}

func (f *fakeSource) Profile(ctx context.Context, apiKey, symbol string) (finnhub.Profile, error) {
	f.lastKey = apiKey
	if apiKey == "" {
		return finnhub.Profile{}, domain.ErrMissingCredentials
	}
	p, ok := f.profiles[symbol]
	if !ok {
		return p, domain.DataUnavailable("no company profile for %s", symbol)
	}
	return p, nil
}

func (f *fakeSource) Quote(ctx context.Context, apiKey, symbol string) (finnhub.Quote, error) {
	return finnhub.Quote{Current: 189.5}, nil
}

func (f *fakeSource) News(ctx context.Context, apiKey, symbol, from, to string) ([]finnhub.Article, error) {
	f.from, f.to = from, to
	return f.news, nil
}

func setupRouter(src *fakeSource) *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(company.NewService(src, logger), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doGet(router http.Handler, target string, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	if key != "" {
		req.Header.Set(api.HeaderFinnhubKey, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGetCompanyProfile(t *testing.T) {
	src := &fakeSource{profiles: map[string]finnhub.Profile{
		"AAPL": {Name: "Apple Inc", Ticker: "AAPL", Industry: "Technology"},
	}}
	router := setupRouter(src)

	w := doGet(router, "/get_company_profile?symbol=AAPL", "user-key")

	assert.Equal(t, http.StatusOK, w.Code)
	var response ProfileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "AAPL", response.Symbol)
	assert.Contains(t, response.CompanyProfile, "Apple Inc is a leading entity in the Technology sector")
	assert.Equal(t, "user-key", src.lastKey)
}

func TestHandleGetCompanyProfile_Errors(t *testing.T) {
	router := setupRouter(&fakeSource{profiles: map[string]finnhub.Profile{}})

	tests := []struct {
		name   string
		target string
		key    string
		status int
		detail string
	}{
		{"missing symbol", "/get_company_profile", "k", http.StatusBadRequest, "Symbol parameter is required."},
		{"unknown symbol", "/get_company_profile?symbol=ZZZZ", "k", http.StatusNotFound, "no company profile for ZZZZ"},
		{"no key", "/get_company_profile?symbol=AAPL", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, tt.target, tt.key)
			assert.Equal(t, tt.status, w.Code)

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			if tt.detail != "" {
				assert.Equal(t, tt.detail, body.Detail)
			}
		})
	}
}

func TestHandleGetCompanyNews(t *testing.T) {
	src := &fakeSource{news: []finnhub.Article{
		{Datetime: 1704153600, Headline: "later"},
		{Datetime: 1704067200, Headline: "earlier"},
	}}
	router := setupRouter(src)

	w := doGet(router, "/get_company_news?symbol=AAPL&start_date=2024-01-01&end_date=2024-01-05", "k")

	assert.Equal(t, http.StatusOK, w.Code)
	var response NewsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.News, 2)
	assert.Equal(t, "earlier", response.News[0].Headline)
	assert.Equal(t, "20240101000000", response.News[0].Date)
	assert.Equal(t, "2024-01-01", src.from)
	assert.Equal(t, "2024-01-05", src.to)
}

func TestHandleGetCompanyNews_MaxNews(t *testing.T) {
	src := &fakeSource{news: []finnhub.Article{
		{Datetime: 3, Headline: "a"},
		{Datetime: 2, Headline: "b"},
		{Datetime: 1, Headline: "c"},
	}}
	router := setupRouter(src)

	w := doGet(router, "/get_company_news?symbol=AAPL&max_news_num=2", "k")
	require.Equal(t, http.StatusOK, w.Code)

	var response NewsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.News, 2)
	assert.Equal(t, "b", response.News[0].Headline)
	assert.Equal(t, "a", response.News[1].Headline)
}

func TestHandleGetCompanyNews_InvalidParams(t *testing.T) {
	router := setupRouter(&fakeSource{})

	for _, target := range []string{
		"/get_company_news?symbol=AAPL&max_news_num=0",
		"/get_company_news?symbol=AAPL&max_news_num=abc",
		"/get_company_news?symbol=AAPL&start_date=01-01-2024",
		"/get_company_news?symbol=AAPL&end_date=2024-13-01",
	} {
		w := doGet(router, target, "k")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestRegisterRoutes(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(company.NewService(&fakeSource{}, logger), logger)

	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")
}
