// Package finnhub wraps the Finnhub SDK with rate limiting, per-request
// API keys and the persistent response cache.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	fh "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/metrics"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/aristath/finsight/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Finnhub REST endpoint.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultRequestsPerMinute matches the free-tier quota.
	DefaultRequestsPerMinute = 60

	provider = "finnhub"
)

// Client for the Finnhub REST API.
type Client struct {
	api        *fh.DefaultApiService
	defaultKey string
	limiter    *rate.Limiter
	log        zerolog.Logger
	cacheRepo  *clientdata.Repository
}

type options struct {
	baseURL    string
	httpClient *http.Client
	perMinute  int
	defaultKey string
}

// Option configures the Client.
type Option func(*options)

// WithBaseURL points the client at another server (tests use httptest).
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// to inject the API key.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRateLimit sets the request budget per minute.
func WithRateLimit(perMinute int) Option {
	return func(o *options) { o.perMinute = perMinute }
}

// WithDefaultKey sets the key used when a request carries none.
func WithDefaultKey(key string) Option {
	return func(o *options) { o.defaultKey = key }
}

// NewClient creates a Finnhub client.
// cacheRepo is optional - if nil, caching is disabled
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger, opts ...Option) *Client {
	o := options{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		perMinute:  DefaultRequestsPerMinute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *o.httpClient
	hc.Transport = &tokenTransport{base: base}

	cfg := fh.NewConfiguration()
	cfg.Servers = fh.ServerConfigurations{{URL: o.baseURL}}
	cfg.HTTPClient = &hc

	return &Client{
		api:        fh.NewAPIClient(cfg).DefaultApi,
		defaultKey: o.defaultKey,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(o.perMinute)), burst(o.perMinute)),
		log:        log.With().Str("client", provider).Logger(),
		cacheRepo:  cacheRepo,
	}
}

// burst allows short spikes of up to a tenth of the minute budget.
func burst(perMinute int) int {
	if b := perMinute / 10; b > 1 {
		return b
	}
	return 1
}

// Profile returns the company profile, cached for clientdata.TTLProfile.
// If the API fails, returns stale cached data if available (stale data > no data).
func (c *Client) Profile(ctx context.Context, apiKey, symbol string) (Profile, error) {
	var profile Profile

	ctx, err := c.authorize(ctx, apiKey)
	if err != nil {
		return profile, err
	}

	if c.fresh(ctx, clientdata.TableFinnhubProfile, symbol, &profile) {
		return profile, nil
	}

	err = c.call(ctx, "profile", func() (*http.Response, error) {
		res, resp, err := c.api.CompanyProfile2(ctx).Symbol(symbol).Execute()
		if err == nil {
			profile = profileFromSDK(res)
		}
		return resp, err
	})
	if err != nil {
		if c.stale(ctx, clientdata.TableFinnhubProfile, symbol, &profile, err) {
			return profile, nil
		}
		return profile, fmt.Errorf("failed to fetch profile for %s: %w", symbol, err)
	}

	if profile.Empty() {
		metrics.UpstreamCalls.WithLabelValues(provider, "profile", metrics.OutcomeEmpty).Inc()
		return profile, domain.DataUnavailable("no company profile for %s", symbol)
	}

	c.store(ctx, clientdata.TableFinnhubProfile, symbol, profile, clientdata.TTLProfile)
	return profile, nil
}

// Quote returns the latest price quote. Quotes are never cached.
func (c *Client) Quote(ctx context.Context, apiKey, symbol string) (Quote, error) {
	var quote Quote

	ctx, err := c.authorize(ctx, apiKey)
	if err != nil {
		return quote, err
	}

	err = c.call(ctx, "quote", func() (*http.Response, error) {
		res, resp, err := c.api.Quote(ctx).Symbol(symbol).Execute()
		if err == nil {
			quote = quoteFromSDK(res)
		}
		return resp, err
	})
	if err != nil {
		return quote, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	return quote, nil
}

// News returns company news published between from and to (YYYY-MM-DD),
// in provider order.
func (c *Client) News(ctx context.Context, apiKey, symbol, from, to string) ([]Article, error) {
	ctx, err := c.authorize(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	var articles []Article
	err = c.call(ctx, "news", func() (*http.Response, error) {
		res, resp, err := c.api.CompanyNews(ctx).Symbol(symbol).From(from).To(to).Execute()
		if err == nil {
			articles = make([]Article, 0, len(res))
			for _, n := range res {
				articles = append(articles, articleFromSDK(n))
			}
		}
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("articles", len(articles)).
		Msg("Fetched company news")

	return articles, nil
}

// BasicFinancials returns the full basic financials record (metric=all),
// cached for clientdata.TTLBasicFinancials.
func (c *Client) BasicFinancials(ctx context.Context, apiKey, symbol string) (financials.BasicFinancials, error) {
	var bf financials.BasicFinancials

	ctx, err := c.authorize(ctx, apiKey)
	if err != nil {
		return bf, err
	}

	if c.fresh(ctx, clientdata.TableFinnhubBasicFinancials, symbol, &bf) {
		return bf, nil
	}

	err = c.call(ctx, "basic_financials", func() (*http.Response, error) {
		res, resp, err := c.api.CompanyBasicFinancials(ctx).Symbol(symbol).Metric("all").Execute()
		if err != nil {
			return resp, err
		}
		// The SDK keeps series as untyped maps; re-decode into typed points
		raw, err := json.Marshal(res)
		if err != nil {
			return resp, fmt.Errorf("failed to encode basic financials: %w", err)
		}
		if err := json.Unmarshal(raw, &bf); err != nil {
			return resp, fmt.Errorf("failed to decode basic financials: %w", err)
		}
		return resp, nil
	})
	if err != nil {
		if c.stale(ctx, clientdata.TableFinnhubBasicFinancials, symbol, &bf, err) {
			return bf, nil
		}
		return bf, fmt.Errorf("failed to fetch basic financials for %s: %w", symbol, err)
	}

	if len(bf.Series) > 0 {
		c.store(ctx, clientdata.TableFinnhubBasicFinancials, symbol, bf, clientdata.TTLBasicFinancials)
	}
	return bf, nil
}

// Filings lists SEC filings for symbol. Empty form, from or to are omitted
// from the request.
func (c *Client) Filings(ctx context.Context, apiKey, symbol, form, from, to string) ([]Filing, error) {
	ctx, err := c.authorize(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	var filings []Filing
	err = c.call(ctx, "filings", func() (*http.Response, error) {
		req := c.api.Filings(ctx).Symbol(symbol)
		if form != "" {
			req = req.Form(form)
		}
		if from != "" {
			req = req.From(from)
		}
		if to != "" {
			req = req.To(to)
		}
		res, resp, err := req.Execute()
		if err == nil {
			filings = make([]Filing, 0, len(res))
			for _, f := range res {
				filings = append(filings, filingFromSDK(f))
			}
		}
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filings for %s: %w", symbol, err)
	}
	return filings, nil
}

// authorize resolves the API key for this request and attaches it to ctx.
func (c *Client) authorize(ctx context.Context, apiKey string) (context.Context, error) {
	if apiKey == "" {
		apiKey = c.defaultKey
	}
	if apiKey == "" {
		return ctx, fmt.Errorf("finnhub API key: %w", domain.ErrMissingCredentials)
	}
	return withToken(ctx, apiKey), nil
}

// call waits for the limiter, runs fn and turns non-2xx responses into
// *domain.StatusError.
func (c *Client) call(ctx context.Context, op string, fn func() (*http.Response, error)) error {
	timer := utils.NewTimer(provider, op, c.log)
	defer timer.Stop()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.UpstreamCalls.WithLabelValues(provider, op, metrics.OutcomeError).Inc()
		return fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := fn()
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues(provider, op, metrics.OutcomeError).Inc()
		if resp != nil && resp.StatusCode >= http.StatusMultipleChoices {
			return &domain.StatusError{Provider: provider, StatusCode: resp.StatusCode}
		}
		return err
	}

	metrics.UpstreamCalls.WithLabelValues(provider, op, metrics.OutcomeOK).Inc()
	return nil
}

func (c *Client) fresh(ctx context.Context, table, key string, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	found, err := c.cacheRepo.GetIfFresh(ctx, table, key, out)
	if err != nil {
		c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Cache read failed")
		return false
	}
	if !found {
		metrics.CacheMiss(table)
		return false
	}
	metrics.CacheHit(table)
	c.log.Debug().Str("table", table).Str("key", key).Msg("Cache hit")
	return true
}

// stale loads an expired entry as a fallback after an API failure.
func (c *Client) stale(ctx context.Context, table, key string, out interface{}, cause error) bool {
	if c.cacheRepo == nil || domain.Unauthorized(cause) {
		return false
	}
	found, err := c.cacheRepo.Get(ctx, table, key, out)
	if err != nil || !found {
		return false
	}
	metrics.UpstreamCalls.WithLabelValues(provider, table, metrics.OutcomeStale).Inc()
	c.log.Warn().
		Err(cause).
		Str("table", table).
		Str("key", key).
		Msg("API failed, using stale cached data")
	return true
}

func (c *Client) store(ctx context.Context, table, key string, data interface{}, ttl time.Duration) {
	if c.cacheRepo == nil {
		return
	}
	if err := c.cacheRepo.Store(ctx, table, key, data, ttl); err != nil {
		c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to cache response")
	}
}
