// Package filings finds the latest SEC filing of a company and extracts
// sections from 10-K reports.
package filings

import (
	"context"
	"strings"

	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/aristath/finsight/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultForm is the filing form used when none is requested.
const DefaultForm = "10-K"

// Sections lists the 10-K items the extractor understands, in report order.
var Sections = []string{
	"1", "1A", "1B", "2", "3", "4", "5", "6", "7", "7A",
	"8", "9", "9A", "9B", "10", "11", "12", "13", "14", "15",
}

var validSections = func() map[string]bool {
	m := make(map[string]bool, len(Sections))
	for _, s := range Sections {
		m[s] = true
	}
	return m
}()

// ValidSection reports whether s names a 10-K item. Matching is exact
// after trimming, so "1a" is rejected.
func ValidSection(s string) bool {
	return validSections[strings.TrimSpace(s)]
}

// Latest returns the filing with the greatest filed date. Ties keep the
// first one seen. ok is false for an empty list.
func Latest(list []finnhub.Filing) (latest finnhub.Filing, ok bool) {
	for i, f := range list {
		if i == 0 || f.FiledDate > latest.FiledDate {
			latest = f
		}
	}
	return latest, len(list) > 0
}

// FilingSource lists filings for a symbol.
type FilingSource interface {
	Filings(ctx context.Context, apiKey, symbol, form, from, to string) ([]finnhub.Filing, error)
}

// SectionSource extracts a section from a filing document.
type SectionSource interface {
	Section(ctx context.Context, apiKey, reportURL, item string) (string, error)
}

// Service serves filings and filing sections.
type Service struct {
	filings  FilingSource
	sections SectionSource
	log      zerolog.Logger
}

// NewService creates a filings service.
func NewService(filings FilingSource, sections SectionSource, log zerolog.Logger) *Service {
	return &Service{
		filings:  filings,
		sections: sections,
		log:      log.With().Str("service", "filings").Logger(),
	}
}

// FilingQuery selects filings. Empty From/To are left to the provider.
type FilingQuery struct {
	Symbol string
	Form   string
	From   string
	To     string
}

// LatestFiling returns the most recently filed matching filing, or nil
// when there is none.
func (s *Service) LatestFiling(ctx context.Context, apiKey string, q FilingQuery) (*finnhub.Filing, error) {
	if q.Form == "" {
		q.Form = DefaultForm
	}

	list, err := s.filings.Filings(ctx, apiKey, q.Symbol, q.Form, q.From, q.To)
	if err != nil {
		return nil, err
	}

	latest, ok := Latest(list)
	if !ok {
		s.log.Debug().
			Str("symbol", q.Symbol).
			Str("form", q.Form).
			Msg("No filings found for the provided criteria")
		return nil, nil
	}
	return &latest, nil
}

// Section returns the text of one 10-K item of the report at reportURL.
func (s *Service) Section(ctx context.Context, apiKey, reportURL, section string) (string, error) {
	section = strings.TrimSpace(section)
	if !ValidSection(section) {
		return "", domain.InvalidArgument("Section must be in [%s]", strings.Join(Sections, ", "))
	}
	return s.sections.Section(ctx, apiKey, reportURL, section)
}
