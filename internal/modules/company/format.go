package company

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/finsight/internal/clients/finnhub"
	"github.com/dustin/go-humanize"
)

// newsDateLayout renders article timestamps as YYYYMMDDHHMMSS.
const newsDateLayout = "20060102150405"

// NewsItem is a news article as returned to API callers.
type NewsItem struct {
	Date     string `json:"date"`
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
}

// FormatProfile renders a company profile and its current price as prose.
// Market cap is in millions of the profile currency.
func FormatProfile(p finnhub.Profile, price float64) string {
	return fmt.Sprintf(
		"%[1]s is a leading entity in the %[2]s sector based in %[3]s. "+
			"Incorporated and publicly traded since %[4]s, the company has established its reputation as "+
			"one of the key players in the market. As of today, %[1]s has a market capitalization "+
			"of %[5]s millions in %[6]s, with %.2[7]f shares outstanding. "+
			"The current stock price is $%[8]s.\n\n"+
			"%[1]s operates primarily in the %[3]s, trading under the ticker %[9]s on the %[10]s. "+
			"As a dominant force in the %[2]s space, the company continues to innovate and drive "+
			"progress within the industry.",
		p.Name,
		p.Industry,
		p.Country,
		p.IPO,
		humanize.FormatFloat("#,###.##", p.MarketCap),
		p.Currency,
		p.SharesOutstanding,
		humanize.FormatFloat("#,###.##", price),
		p.Ticker,
		p.Exchange,
	)
}

// ShapeNews keeps the first max articles in provider order, then sorts
// them oldest first. Dates are rendered in UTC.
func ShapeNews(articles []finnhub.Article, max int) []NewsItem {
	if max >= 0 && len(articles) > max {
		articles = articles[:max]
	}

	items := make([]NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, NewsItem{
			Date:     time.Unix(a.Datetime, 0).UTC().Format(newsDateLayout),
			Headline: a.Headline,
			URL:      a.URL,
			Source:   a.Source,
			Summary:  a.Summary,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date < items[j].Date })
	return items
}
