package financials

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultHistoryDays is the history window used when no start date is given.
const DefaultHistoryDays = 12 * 30

const dateLayout = "2006-01-02"

// Source fetches a company's basic financials record.
type Source interface {
	BasicFinancials(ctx context.Context, apiKey, symbol string) (BasicFinancials, error)
}

// Service serves current and historical basic financials.
type Service struct {
	source Source
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a financials service.
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "financials").Logger(),
		now:    time.Now,
	}
}

// Snapshot returns the current metrics of symbol, refreshed with the most
// recent quarterly value of each series.
func (s *Service) Snapshot(ctx context.Context, apiKey, symbol string, selected []string) (map[string]interface{}, error) {
	bf, err := s.source.BasicFinancials(ctx, apiKey, symbol)
	if err != nil {
		return nil, err
	}
	return Snapshot(bf, selected)
}

// HistoryQuery selects a window of basic financials history.
type HistoryQuery struct {
	Symbol   string
	Freq     Frequency
	Start    string
	End      string
	Selected []string
}

// History returns symbol's metrics for q.Freq within [q.Start, q.End].
// Start defaults to DefaultHistoryDays ago and End to today (UTC).
func (s *Service) History(ctx context.Context, apiKey string, q HistoryQuery) (Table, error) {
	q.Freq = Frequency(strings.ToLower(string(q.Freq)))
	if err := q.Freq.Validate(); err != nil {
		return nil, err
	}

	today := s.now().UTC()
	if q.Start == "" {
		q.Start = today.AddDate(0, 0, -DefaultHistoryDays).Format(dateLayout)
	}
	if q.End == "" {
		q.End = today.Format(dateLayout)
	}

	bf, err := s.source.BasicFinancials(ctx, apiKey, q.Symbol)
	if err != nil {
		return nil, err
	}

	table, err := ExtractSeries(bf.Series, q.Freq, q.Start, q.End, q.Selected)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("symbol", q.Symbol).
		Str("freq", string(q.Freq)).
		Str("start", q.Start).
		Str("end", q.End).
		Int("periods", len(table)).
		Msg("Extracted basic financials history")
	return table, nil
}
