package finnhub

import (
	fh "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// Profile is the subset of the company profile the service renders.
type Profile struct {
	Name              string  `json:"name" msgpack:"name"`
	Ticker            string  `json:"ticker" msgpack:"ticker"`
	Country           string  `json:"country" msgpack:"country"`
	Currency          string  `json:"currency" msgpack:"currency"`
	Exchange          string  `json:"exchange" msgpack:"exchange"`
	IPO               string  `json:"ipo" msgpack:"ipo"`
	Industry          string  `json:"finnhubIndustry" msgpack:"industry"`
	MarketCap         float64 `json:"marketCapitalization" msgpack:"market_cap"`
	SharesOutstanding float64 `json:"shareOutstanding" msgpack:"shares_outstanding"`
	WebURL            string  `json:"weburl" msgpack:"weburl"`
	Logo              string  `json:"logo" msgpack:"logo"`
	Phone             string  `json:"phone" msgpack:"phone"`
}

// Empty reports whether the provider returned no profile (unknown symbol).
func (p Profile) Empty() bool {
	return p.Name == "" && p.Ticker == ""
}

// Quote is a real-time price quote.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// Article is one company news item.
type Article struct {
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Related  string `json:"related"`
}

// Filing is one SEC filing entry.
type Filing struct {
	AccessNumber string `json:"accessNumber"`
	Symbol       string `json:"symbol"`
	CIK          string `json:"cik"`
	Form         string `json:"form"`
	FiledDate    string `json:"filedDate"`
	AcceptedDate string `json:"acceptedDate"`
	ReportURL    string `json:"reportUrl"`
	FilingURL    string `json:"filingUrl"`
}

func profileFromSDK(p fh.CompanyProfile2) Profile {
	return Profile{
		Name:              p.GetName(),
		Ticker:            p.GetTicker(),
		Country:           p.GetCountry(),
		Currency:          p.GetCurrency(),
		Exchange:          p.GetExchange(),
		IPO:               p.GetIpo(),
		Industry:          p.GetFinnhubIndustry(),
		MarketCap:         float64(p.GetMarketCapitalization()),
		SharesOutstanding: float64(p.GetShareOutstanding()),
		WebURL:            p.GetWeburl(),
		Logo:              p.GetLogo(),
		Phone:             p.GetPhone(),
	}
}

func quoteFromSDK(q fh.Quote) Quote {
	return Quote{
		Current:       float64(q.GetC()),
		Change:        float64(q.GetD()),
		PercentChange: float64(q.GetDp()),
		High:          float64(q.GetH()),
		Low:           float64(q.GetL()),
		Open:          float64(q.GetO()),
		PreviousClose: float64(q.GetPc()),
	}
}

func articleFromSDK(n fh.CompanyNews) Article {
	return Article{
		Datetime: n.GetDatetime(),
		Headline: n.GetHeadline(),
		URL:      n.GetUrl(),
		Source:   n.GetSource(),
		Summary:  n.GetSummary(),
		Category: n.GetCategory(),
		Related:  n.GetRelated(),
	}
}

func filingFromSDK(f fh.Filing) Filing {
	return Filing{
		AccessNumber: f.GetAccessNumber(),
		Symbol:       f.GetSymbol(),
		CIK:          f.GetCik(),
		Form:         f.GetForm(),
		FiledDate:    f.GetFiledDate(),
		AcceptedDate: f.GetAcceptedDate(),
		ReportURL:    f.GetReportUrl(),
		FilingURL:    f.GetFilingUrl(),
	}
}
