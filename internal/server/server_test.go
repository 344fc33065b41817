package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/di"
)

func newTestServer(t *testing.T, cacheEnabled bool) *Server {
	cfg := &config.Config{
		Port:                     8000,
		DataDir:                  t.TempDir(),
		CORSOrigins:              []string{"http://localhost:3000"},
		CacheEnabled:             cacheEnabled,
		CacheCleanupSchedule:     "0 0 * * * *",
		FinnhubRequestsPerMinute: 60,
		YahooRequestsPerMinute:   120,
		UpstreamTimeout:          5 * time.Second,
	}
	log := zerolog.Nop()

	container, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: log, Config: cfg, Container: container})
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)

	w := serve(s, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "finsight", response.Service)
	assert.True(t, response.Cache.Enabled)
	assert.Equal(t, "ok", response.Cache.Status)
	require.Len(t, response.Jobs, 1)
	assert.Equal(t, "client_data_cleanup", response.Jobs[0].Name)
}

func TestHealth_CacheDisabled(t *testing.T) {
	s := newTestServer(t, false)

	w := serve(s, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Cache.Enabled)
	assert.Equal(t, "disabled", response.Cache.Status)
	assert.Empty(t, response.Jobs)
}

func TestHealth_CacheDown(t *testing.T) {
	s := newTestServer(t, true)
	require.NoError(t, s.container.ClientDataDB.Close())

	w := serve(s, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "degraded", response.Status)
	assert.Equal(t, "error", response.Cache.Status)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, false)

	first := serve(s, httptest.NewRequest("GET", "/health", nil)).Header().Get("X-Request-ID")
	second := serve(s, httptest.NewRequest("GET", "/health", nil)).Header().Get("X-Request-ID")
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := serve(s, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestAPIRoutesMounted(t *testing.T) {
	s := newTestServer(t, false)

	// Every route rejects a missing symbol before touching a provider
	for _, path := range []string{
		"/api/py/get_company_profile",
		"/api/py/get_company_news",
		"/api/py/get_basic_financials",
		"/api/py/get_basic_financials_history",
		"/api/py/get_sec_filing",
		"/api/py/get_income_statement",
	} {
		w := serve(s, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"detail":"Symbol parameter is required."}`, w.Body.String(), path)
	}

	w := serve(s, httptest.NewRequest("GET", "/api/py/get_10k_section", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(s, httptest.NewRequest("GET", "/api/py/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMissingCredentials(t *testing.T) {
	s := newTestServer(t, false)

	w := serve(s, httptest.NewRequest("GET", "/api/py/get_basic_financials?symbol=AAPL", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Missing API key for the upstream provider."}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest("OPTIONS", "/api/py/get_company_profile", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "X-Finnhub-API-Key")
	w := serve(s, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/py/get_company_profile", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w = serve(s, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, false)

	serve(s, httptest.NewRequest("GET", "/api/py/get_income_statement", nil))
	w := serve(s, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `finsight_http_requests_total{method="GET",route="/api/py/get_income_statement",status="400"}`)
}
