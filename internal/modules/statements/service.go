// Package statements serves income statements reshaped into period tables.
package statements

import (
	"context"
	"strings"

	"github.com/aristath/finsight/internal/modules/financials"
	"github.com/rs/zerolog"
)

// Source fetches raw income statement line items.
type Source interface {
	IncomeStatement(ctx context.Context, symbol string, freq financials.Frequency) (financials.RawSeries, error)
}

// Service builds income statement tables.
type Service struct {
	source Source
	log    zerolog.Logger
}

// NewService creates a statements service.
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "statements").Logger(),
	}
}

// IncomeStatement returns every reported period of symbol's income
// statement. An empty freq means annual.
func (s *Service) IncomeStatement(ctx context.Context, symbol string, freq financials.Frequency) (financials.Table, error) {
	if freq == "" {
		freq = financials.Annual
	}
	freq = financials.Frequency(strings.ToLower(string(freq)))

	// Checked here too so a bad frequency never reaches the provider
	if err := freq.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.source.IncomeStatement(ctx, symbol, freq)
	if err != nil {
		return nil, err
	}

	table, err := financials.ExtractSeries(raw, freq, financials.MinPeriod, financials.MaxPeriod, nil)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("symbol", symbol).
		Str("freq", string(freq)).
		Int("periods", len(table)).
		Msg("Built income statement")
	return table, nil
}
