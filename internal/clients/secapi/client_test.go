package secapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/domain"
	testingpkg "github.com/aristath/finsight/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportURL = "https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm"

func newTestClient(t *testing.T, handler http.HandlerFunc, repo *clientdata.Repository, opts ...Option) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL), WithRetry(2, time.Millisecond, 5*time.Millisecond)}, opts...)
	c := NewClient(repo, zerolog.Nop(), opts...)
	c.pollWait = time.Millisecond
	return c
}

func TestSection_RequestShape(t *testing.T) {
	var query url.Values
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extractor", r.URL.Path)
		query = r.URL.Query()
		auth = r.Header.Get("Authorization")
		w.Write([]byte("Item 7. Management's Discussion and Analysis"))
	}, nil)

	text, err := client.Section(context.Background(), "sec-key", reportURL, "7")
	require.NoError(t, err)
	assert.Equal(t, "Item 7. Management's Discussion and Analysis", text)
	assert.Equal(t, reportURL, query.Get("url"))
	assert.Equal(t, "7", query.Get("item"))
	assert.Equal(t, "text", query.Get("type"))
	assert.Equal(t, "sec-key", auth)
	assert.False(t, query.Has("token"))
}

func TestSection_MissingKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "unexpected request")
	}, nil)

	_, err := client.Section(context.Background(), "", reportURL, "7")
	assert.True(t, errors.Is(err, domain.ErrMissingCredentials))
}

func TestSection_DefaultKey(t *testing.T) {
	var token string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("Authorization")
		w.Write([]byte("text"))
	}, nil, WithDefaultKey("server-key"))

	_, err := client.Section(context.Background(), "", reportURL, "1A")
	require.NoError(t, err)
	assert.Equal(t, "server-key", token)
}

func TestSection_PollsWhileProcessing(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Write([]byte("processing"))
			return
		}
		w.Write([]byte("done"))
	}, nil)

	text, err := client.Section(context.Background(), "k", reportURL, "1")
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSection_GivesUpWhileProcessing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("processing"))
	}, nil)

	_, err := client.Section(context.Background(), "k", reportURL, "1")
	assert.Error(t, err)
}

func TestSection_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}, nil)

	text, err := client.Section(context.Background(), "k", reportURL, "2")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSection_UnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid token"))
	}, nil)

	_, err := client.Section(context.Background(), "bad", reportURL, "2")
	require.Error(t, err)
	assert.True(t, domain.Unauthorized(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSection_CacheAndStaleFallback(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	repo := testingpkg.NewCacheRepo(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("risk factors"))
	}, repo)
	ctx := context.Background()

	_, err := client.Section(ctx, "k1", reportURL, "1A")
	require.NoError(t, err)
	// A different key shares the cache entry
	_, err = client.Section(ctx, "k2", reportURL, "1A")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, repo.Store(ctx, clientdata.TableSecAPISections, reportURL+"|1A", "risk factors", -time.Hour))
	fail.Store(true)

	text, err := client.Section(ctx, "k1", reportURL, "1A")
	require.NoError(t, err)
	assert.Equal(t, "risk factors", text)
}

func TestSection_TransportErrorHidesKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}, nil)

	_, err := client.Section(context.Background(), "SUPERSECRET", reportURL, "7")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRET")
	assert.NotContains(t, err.Error(), "/extractor")

	rec := httptest.NewRecorder()
	api.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), zerolog.Nop(), err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "SUPERSECRET")
}
