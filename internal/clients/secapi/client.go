// Package secapi is a client for the sec-api.io extractor, which returns
// individual sections of 10-K, 10-Q and 8-K filings.
package secapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/metrics"
	"github.com/aristath/finsight/internal/utils"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.sec-api.io"

	provider = "sec-api"

	// processingBody is returned while the extractor is still parsing a filing.
	processingBody   = "processing"
	processingPolls  = 3
	processingPeriod = 500 * time.Millisecond
)

// Client for the sec-api.io extractor.
type Client struct {
	baseURL    string
	defaultKey string
	http       *retryablehttp.Client
	log        zerolog.Logger
	cacheRepo  *clientdata.Repository
	pollWait   time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithDefaultKey sets the key used when a request carries none.
func WithDefaultKey(key string) Option {
	return func(c *Client) { c.defaultKey = key }
}

// WithRetry sets the retry budget for transport errors and 5xx/429 answers.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryMax = max
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// NewClient creates a sec-api.io client.
// cacheRepo is optional - if nil, caching is disabled
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger, opts ...Option) *Client {
	log = log.With().Str("client", provider).Logger()

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = leveledLogger{log: log}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL:   DefaultBaseURL,
		http:      rc,
		log:       log,
		cacheRepo: cacheRepo,
		pollWait:  processingPeriod,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Section returns the plain-text content of one item of the filing at
// reportURL. Sections are cached for clientdata.TTLSecSection.
func (c *Client) Section(ctx context.Context, apiKey, reportURL, item string) (string, error) {
	if apiKey == "" {
		apiKey = c.defaultKey
	}
	if apiKey == "" {
		return "", fmt.Errorf("sec-api key: %w", domain.ErrMissingCredentials)
	}

	cacheKey := reportURL + "|" + item

	var text string
	if c.cacheRepo != nil {
		found, err := c.cacheRepo.GetIfFresh(ctx, clientdata.TableSecAPISections, cacheKey, &text)
		if err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("Cache read failed")
		} else if found {
			metrics.CacheHit(clientdata.TableSecAPISections)
			return text, nil
		} else {
			metrics.CacheMiss(clientdata.TableSecAPISections)
		}
	}

	timer := utils.NewTimer(provider, "section", c.log)
	text, err := c.extract(ctx, apiKey, reportURL, item)
	timer.Stop()

	if err != nil {
		metrics.UpstreamCalls.WithLabelValues(provider, "section", metrics.OutcomeError).Inc()
		if c.cacheRepo != nil && !domain.Unauthorized(err) {
			var stale string
			if found, _ := c.cacheRepo.Get(ctx, clientdata.TableSecAPISections, cacheKey, &stale); found {
				metrics.UpstreamCalls.WithLabelValues(provider, "section", metrics.OutcomeStale).Inc()
				c.log.Warn().Err(err).Str("item", item).Msg("API failed, using stale cached section")
				return stale, nil
			}
		}
		return "", fmt.Errorf("failed to extract section %s: %w", item, err)
	}
	metrics.UpstreamCalls.WithLabelValues(provider, "section", metrics.OutcomeOK).Inc()

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(ctx, clientdata.TableSecAPISections, cacheKey, text, clientdata.TTLSecSection); err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache section")
		}
	}

	c.log.Info().
		Str("item", item).
		Int("chars", len(text)).
		Msg("Extracted filing section")

	return text, nil
}

// extract polls the extractor until it stops answering "processing".
func (c *Client) extract(ctx context.Context, apiKey, reportURL, item string) (string, error) {
	params := url.Values{}
	params.Set("url", reportURL)
	params.Set("item", item)
	params.Set("type", "text")
	reqURL := c.baseURL + "/extractor?" + params.Encode()

	for attempt := 0; attempt < processingPolls; attempt++ {
		body, err := c.get(ctx, apiKey, reqURL)
		if err != nil {
			return "", err
		}
		if body != processingBody {
			return body, nil
		}

		c.log.Debug().Str("item", item).Int("attempt", attempt+1).Msg("Extractor still processing")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollWait):
		}
	}

	return "", fmt.Errorf("extractor still processing after %d attempts", processingPolls)
}

func (c *Client) get(ctx context.Context, apiKey, reqURL string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		// Error text reaches API responses; keep the request URL out of it
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.StatusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return string(body), nil
}
