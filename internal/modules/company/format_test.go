package company

import (
	"testing"

	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatProfile(t *testing.T) {
	p := finnhub.Profile{
		Name:              "Apple Inc",
		Ticker:            "AAPL",
		Country:           "US",
		Currency:          "USD",
		Exchange:          "NASDAQ NMS - GLOBAL MARKET",
		IPO:               "1980-12-12",
		Industry:          "Technology",
		MarketCap:         2950000.5,
		SharesOutstanding: 15441.881,
	}

	got := FormatProfile(p, 1189.5)

	assert.Equal(t,
		"Apple Inc is a leading entity in the Technology sector based in US. "+
			"Incorporated and publicly traded since 1980-12-12, the company has established its reputation as "+
			"one of the key players in the market. As of today, Apple Inc has a market capitalization "+
			"of 2,950,000.50 millions in USD, with 15441.88 shares outstanding. "+
			"The current stock price is $1,189.50.\n\n"+
			"Apple Inc operates primarily in the US, trading under the ticker AAPL on the NASDAQ NMS - GLOBAL MARKET. "+
			"As a dominant force in the Technology space, the company continues to innovate and drive "+
			"progress within the industry.",
		got)
}

func TestShapeNews(t *testing.T) {
	articles := []finnhub.Article{
		{Datetime: 1704153600, Headline: "second", URL: "https://b", Source: "Reuters", Summary: "sb"}, // 2024-01-02 00:00:00
		{Datetime: 1704067200, Headline: "first", URL: "https://a", Source: "Yahoo", Summary: "sa"},    // 2024-01-01 00:00:00
		{Datetime: 1704240000, Headline: "third", URL: "https://c", Source: "CNBC", Summary: "sc"},     // 2024-01-03 00:00:00
	}

	t.Run("sorted oldest first", func(t *testing.T) {
		items := ShapeNews(articles, 10)
		require.Len(t, items, 3)
		assert.Equal(t, "20240101000000", items[0].Date)
		assert.Equal(t, "first", items[0].Headline)
		assert.Equal(t, "https://a", items[0].URL)
		assert.Equal(t, "Yahoo", items[0].Source)
		assert.Equal(t, "sa", items[0].Summary)
		assert.Equal(t, "third", items[2].Headline)
	})

	t.Run("truncates in provider order before sorting", func(t *testing.T) {
		items := ShapeNews(articles, 2)
		require.Len(t, items, 2)
		assert.Equal(t, "first", items[0].Headline)
		assert.Equal(t, "second", items[1].Headline)
	})

	t.Run("stable for equal dates", func(t *testing.T) {
		same := []finnhub.Article{
			{Datetime: 1704067200, Headline: "a"},
			{Datetime: 1704067200, Headline: "b"},
		}
		items := ShapeNews(same, 10)
		assert.Equal(t, "a", items[0].Headline)
		assert.Equal(t, "b", items[1].Headline)
	})

	t.Run("empty", func(t *testing.T) {
		items := ShapeNews(nil, 10)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}
