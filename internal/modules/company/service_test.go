package company

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/aristath/finsight/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Profile(ctx context.Context, apiKey, symbol string) (finnhub.Profile, error) {
	args := m.Called(ctx, apiKey, symbol)
	return args.Get(0).(finnhub.Profile), args.Error(1)
}

func (m *mockSource) Quote(ctx context.Context, apiKey, symbol string) (finnhub.Quote, error) {
	args := m.Called(ctx, apiKey, symbol)
	return args.Get(0).(finnhub.Quote), args.Error(1)
}

func (m *mockSource) News(ctx context.Context, apiKey, symbol, from, to string) ([]finnhub.Article, error) {
	args := m.Called(ctx, apiKey, symbol, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finnhub.Article), args.Error(1)
}

func newTestService(src Source) *Service {
	s := NewService(src, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 3, 15, 22, 30, 0, 0, time.UTC) }
	return s
}

func TestProfileSummary(t *testing.T) {
	src := &mockSource{}
	src.On("Profile", mock.Anything, "k", "AAPL").Return(finnhub.Profile{Name: "Apple Inc", Ticker: "AAPL"}, nil)
	src.On("Quote", mock.Anything, "k", "AAPL").Return(finnhub.Quote{Current: 189.5}, nil)

	text, err := newTestService(src).ProfileSummary(context.Background(), "k", "AAPL")
	require.NoError(t, err)
	assert.Contains(t, text, "The current stock price is $189.50.")
	src.AssertExpectations(t)
}

func TestProfileSummary_NoProfileSkipsQuote(t *testing.T) {
	src := &mockSource{}
	src.On("Profile", mock.Anything, "k", "ZZZZ").Return(finnhub.Profile{}, domain.DataUnavailable("no company profile for ZZZZ"))

	_, err := newTestService(src).ProfileSummary(context.Background(), "k", "ZZZZ")
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
	src.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileSummary_QuoteFailure(t *testing.T) {
	src := &mockSource{}
	src.On("Profile", mock.Anything, "k", "AAPL").Return(finnhub.Profile{Name: "Apple Inc", Ticker: "AAPL"}, nil)
	src.On("Quote", mock.Anything, "k", "AAPL").Return(finnhub.Quote{}, errors.New("timeout"))

	_, err := newTestService(src).ProfileSummary(context.Background(), "k", "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch stock price for AAPL")
}

func TestNews_DefaultDates(t *testing.T) {
	src := &mockSource{}
	src.On("News", mock.Anything, "k", "AAPL", "2024-03-14", "2024-03-15").Return([]finnhub.Article{}, nil)

	items, err := newTestService(src).News(context.Background(), "k", NewsQuery{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.Empty(t, items)
	src.AssertExpectations(t)
}

func TestNews_ExplicitDatesAndMax(t *testing.T) {
	articles := make([]finnhub.Article, 15)
	for i := range articles {
		articles[i] = finnhub.Article{Datetime: int64(1704067200 + i*60), Headline: "h"}
	}
	src := &mockSource{}
	src.On("News", mock.Anything, "k", "AAPL", "2024-01-01", "2024-01-31").Return(articles, nil)

	svc := newTestService(src)

	items, err := svc.News(context.Background(), "k", NewsQuery{Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.Len(t, items, DefaultMaxNews)

	items, err = svc.News(context.Background(), "k", NewsQuery{Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-01-31", Max: 3})
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
