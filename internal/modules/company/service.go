// Package company serves company profiles and company news.
package company

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/rs/zerolog"
)

// DefaultMaxNews is the number of articles returned when the caller does
// not ask for a specific count.
const DefaultMaxNews = 10

const dateLayout = "2006-01-02"

// Source is the subset of the Finnhub client this service needs.
type Source interface {
	Profile(ctx context.Context, apiKey, symbol string) (finnhub.Profile, error)
	Quote(ctx context.Context, apiKey, symbol string) (finnhub.Quote, error)
	News(ctx context.Context, apiKey, symbol, from, to string) ([]finnhub.Article, error)
}

// Service builds profile summaries and news listings.
type Service struct {
	source Source
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a company service.
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "company").Logger(),
		now:    time.Now,
	}
}

// ProfileSummary returns the prose profile of symbol including its
// current price.
func (s *Service) ProfileSummary(ctx context.Context, apiKey, symbol string) (string, error) {
	profile, err := s.source.Profile(ctx, apiKey, symbol)
	if err != nil {
		return "", err
	}

	quote, err := s.source.Quote(ctx, apiKey, symbol)
	if err != nil {
		return "", fmt.Errorf("failed to fetch stock price for %s: %w", symbol, err)
	}

	return FormatProfile(profile, quote.Current), nil
}

// NewsQuery selects company news. Empty dates default to yesterday and
// today (UTC).
type NewsQuery struct {
	Symbol    string
	StartDate string
	EndDate   string
	Max       int
}

// News returns up to q.Max articles sorted oldest first.
func (s *Service) News(ctx context.Context, apiKey string, q NewsQuery) ([]NewsItem, error) {
	today := s.now().UTC()
	if q.StartDate == "" {
		q.StartDate = today.AddDate(0, 0, -1).Format(dateLayout)
	}
	if q.EndDate == "" {
		q.EndDate = today.Format(dateLayout)
	}
	if q.Max == 0 {
		q.Max = DefaultMaxNews
	}

	articles, err := s.source.News(ctx, apiKey, q.Symbol, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}

	if len(articles) == 0 {
		s.log.Debug().
			Str("symbol", q.Symbol).
			Str("from", q.StartDate).
			Str("to", q.EndDate).
			Msg("No company news found")
	}

	return ShapeNews(articles, q.Max), nil
}
