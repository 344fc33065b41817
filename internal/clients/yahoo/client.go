// Package yahoo fetches income statement line items from the Yahoo Finance
// fundamentals time-series endpoint.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/metrics"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/aristath/finsight/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	DefaultSeedURL = "https://fc.yahoo.com"

	// DefaultRequestsPerMinute keeps well below the unofficial throttle.
	DefaultRequestsPerMinute = 120

	crumbTTL  = time.Hour
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	provider  = "yahoo"

	// period1 is the earliest date the endpoint serves fundamentals for.
	period1 = 493590046
)

// IncomeStatementItems are the line items requested from the endpoint,
// without the annual/quarterly prefix.
var IncomeStatementItems = []string{
	"TotalRevenue",
	"OperatingRevenue",
	"CostOfRevenue",
	"GrossProfit",
	"ResearchAndDevelopment",
	"SellingGeneralAndAdministration",
	"OperatingExpense",
	"OperatingIncome",
	"InterestExpense",
	"InterestIncome",
	"OtherIncomeExpense",
	"PretaxIncome",
	"TaxProvision",
	"NetIncome",
	"NetIncomeCommonStockholders",
	"EBIT",
	"EBITDA",
	"NormalizedEBITDA",
	"BasicEPS",
	"DilutedEPS",
	"BasicAverageShares",
	"DilutedAverageShares",
	"TotalExpenses",
	"ReconciledDepreciation",
}

// Client for Yahoo Finance.
type Client struct {
	baseURL    string
	seedURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
	cacheRepo  *clientdata.Repository
	now        func() time.Time

	crumbMu  sync.Mutex
	crumb    string
	crumbExp time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets the API host (query2.finance.yahoo.com by default).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithSeedURL sets the page visited to obtain session cookies.
func WithSeedURL(seedURL string) Option {
	return func(c *Client) { c.seedURL = seedURL }
}

// WithHTTPClient sets the HTTP client. A cookie jar is added if missing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the request budget per minute.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 2)
	}
}

// NewClient creates a Yahoo Finance client.
// cacheRepo is optional - if nil, caching is disabled
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		seedURL:    DefaultSeedURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), 2),
		log:        log.With().Str("client", provider).Logger(),
		cacheRepo:  cacheRepo,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		hc := *c.httpClient
		hc.Jar = jar
		c.httpClient = &hc
	}

	return c
}

// IncomeStatement returns income statement line items for symbol keyed
// frequency -> line item -> points. A symbol with no data yields an empty
// RawSeries.
func (c *Client) IncomeStatement(ctx context.Context, symbol string, freq financials.Frequency) (financials.RawSeries, error) {
	if !freq.Valid() {
		return nil, domain.InvalidArgument("frequency must be %q or %q, got %q", financials.Annual, financials.Quarterly, freq)
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	cacheKey := symbol + "|" + string(freq)

	var series financials.RawSeries
	if c.cacheRepo != nil {
		found, err := c.cacheRepo.GetIfFresh(ctx, clientdata.TableYahooIncomeStatement, cacheKey, &series)
		if err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("Cache read failed")
		} else if found {
			metrics.CacheHit(clientdata.TableYahooIncomeStatement)
			c.log.Debug().Str("symbol", symbol).Str("freq", string(freq)).Msg("Cache hit")
			return series, nil
		} else {
			metrics.CacheMiss(clientdata.TableYahooIncomeStatement)
		}
	}

	timer := utils.NewTimer(provider, "income_statement", c.log)
	body, err := c.fetchTimeseries(ctx, symbol, freq)
	// Crumb expired - invalidate and retry once
	if err != nil && domain.Unauthorized(err) {
		c.log.Debug().Str("symbol", symbol).Msg("Crumb rejected, refreshing and retrying")
		c.resetCrumb()
		body, err = c.fetchTimeseries(ctx, symbol, freq)
	}
	timer.Stop()

	if err == nil {
		series, err = parseTimeseries(body, freq)
	}
	if err != nil {
		metrics.UpstreamCalls.WithLabelValues(provider, "income_statement", metrics.OutcomeError).Inc()
		if stale, ok := c.getStale(ctx, cacheKey); ok {
			metrics.UpstreamCalls.WithLabelValues(provider, "income_statement", metrics.OutcomeStale).Inc()
			c.log.Warn().
				Err(err).
				Str("symbol", symbol).
				Msg("API failed, using stale cached income statement")
			return stale, nil
		}
		return nil, fmt.Errorf("failed to fetch income statement for %s: %w", symbol, err)
	}

	if len(series) == 0 {
		metrics.UpstreamCalls.WithLabelValues(provider, "income_statement", metrics.OutcomeEmpty).Inc()
		return series, nil
	}
	metrics.UpstreamCalls.WithLabelValues(provider, "income_statement", metrics.OutcomeOK).Inc()

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(ctx, clientdata.TableYahooIncomeStatement, cacheKey, series, clientdata.TTLIncomeStatement); err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache income statement")
		}
	}

	c.log.Info().
		Str("symbol", symbol).
		Str("freq", string(freq)).
		Int("items", len(series[string(freq)])).
		Msg("Fetched income statement")

	return series, nil
}

func (c *Client) getStale(ctx context.Context, cacheKey string) (financials.RawSeries, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}
	var series financials.RawSeries
	found, err := c.cacheRepo.Get(ctx, clientdata.TableYahooIncomeStatement, cacheKey, &series)
	if err != nil || !found {
		return nil, false
	}
	return series, true
}

func (c *Client) fetchTimeseries(ctx context.Context, symbol string, freq financials.Frequency) ([]byte, error) {
	crumb, err := c.getCrumb(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining crumb: %w", err)
	}

	types := make([]string, len(IncomeStatementItems))
	for i, item := range IncomeStatementItems {
		types[i] = string(freq) + item
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("type", strings.Join(types, ","))
	params.Set("period1", strconv.Itoa(period1))
	params.Set("period2", strconv.FormatInt(c.now().Unix(), 10))
	params.Set("crumb", crumb)

	reqURL := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		c.baseURL, url.PathEscape(symbol), params.Encode())

	return c.get(ctx, reqURL)
}

// getCrumb returns the cached crumb or obtains a fresh one. Yahoo requires
// session cookies from the seed page before it hands out a crumb; the
// cookies persist in the client's jar.
func (c *Client) getCrumb(ctx context.Context) (string, error) {
	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()

	if c.crumb != "" && c.now().Before(c.crumbExp) {
		return c.crumb, nil
	}

	seedReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.seedURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating seed request: %w", err)
	}
	seedReq.Header.Set("User-Agent", userAgent)
	seedResp, err := c.httpClient.Do(seedReq)
	if err != nil {
		return "", fmt.Errorf("seed request failed: %w", err)
	}
	// Only the cookies matter; the seed page usually answers 404
	io.Copy(io.Discard, seedResp.Body)
	seedResp.Body.Close()

	body, err := c.get(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", err
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", errors.New("empty crumb returned")
	}

	c.crumb = crumb
	c.crumbExp = c.now().Add(crumbTTL)
	c.log.Debug().Msg("Yahoo Finance crumb obtained")

	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.crumbMu.Lock()
	c.crumb = ""
	c.crumbExp = time.Time{}
	c.crumbMu.Unlock()
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.StatusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 200),
		}
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
