package di

import (
	"net/http"

	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/aristath/finsight/internal/clients/secapi"
	"github.com/aristath/finsight/internal/clients/yahoo"
	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/modules/company"
	"github.com/aristath/finsight/internal/modules/filings"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/aristath/finsight/internal/modules/statements"
	"github.com/rs/zerolog"
)

// InitializeServices creates the provider clients and the services on top
// of them. ClientDataRepo may be nil, which disables response caching.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.FinnhubClient = finnhub.NewClient(container.ClientDataRepo, log,
		finnhub.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		finnhub.WithRateLimit(cfg.FinnhubRequestsPerMinute),
		finnhub.WithDefaultKey(cfg.FinnhubAPIKey),
	)

	container.YahooClient = yahoo.NewClient(container.ClientDataRepo, log,
		yahoo.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		yahoo.WithRateLimit(cfg.YahooRequestsPerMinute),
	)

	container.SecAPIClient = secapi.NewClient(container.ClientDataRepo, log,
		secapi.WithDefaultKey(cfg.SecAPIKey),
		secapi.WithTimeout(cfg.UpstreamTimeout),
	)

	container.CompanyService = company.NewService(container.FinnhubClient, log)
	container.FinancialsService = financials.NewService(container.FinnhubClient, log)
	container.FilingsService = filings.NewService(container.FinnhubClient, container.SecAPIClient, log)
	container.StatementsService = statements.NewService(container.YahooClient, log)

	return nil
}
