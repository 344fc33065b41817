/**
 * Package di provides dependency injection type definitions.
 *
 * The Container holds every long-lived dependency of the service and is
 * passed to the HTTP server, which builds handlers from it.
 */
package di

import (
	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/aristath/finsight/internal/clients/secapi"
	"github.com/aristath/finsight/internal/clients/yahoo"
	"github.com/aristath/finsight/internal/database"
	"github.com/aristath/finsight/internal/modules/company"
	"github.com/aristath/finsight/internal/modules/filings"
	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/aristath/finsight/internal/modules/statements"
	"github.com/aristath/finsight/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: client_data.db, the provider response cache (nil when caching is off)
 * - Clients: Finnhub, Yahoo Finance and sec-api.io
 * - Services: one per HTTP module
 * - Scheduler: cron runner for cache maintenance
 */
type Container struct {
	// Databases
	ClientDataDB *database.DB

	// Repositories
	ClientDataRepo *clientdata.Repository

	// Clients
	FinnhubClient *finnhub.Client
	YahooClient   *yahoo.Client
	SecAPIClient  *secapi.Client

	// Services
	CompanyService    *company.Service
	FinancialsService *financials.Service
	FilingsService    *filings.Service
	StatementsService *statements.Service

	// Jobs
	Scheduler  *scheduler.Scheduler
	CleanupJob *clientdata.CleanupJob
}
