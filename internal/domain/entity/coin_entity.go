package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CoinSummary is one row of the price index markets listing.
// Field names follow the upstream payload.
type CoinSummary struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Image                    string          `json:"image"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	MarketCapRank            int             `json:"market_cap_rank"`
	TotalVolume              decimal.Decimal `json:"total_volume"`
	High24h                  decimal.Decimal `json:"high_24h"`
	Low24h                   decimal.Decimal `json:"low_24h"`
	PriceChangePercentage24h decimal.Decimal `json:"price_change_percentage_24h"`
}

// CoinImages holds the logo URLs of a coin.
type CoinImages struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CoinMarketData holds per-currency market figures keyed by currency code.
type CoinMarketData struct {
	CurrentPrice map[string]decimal.Decimal `json:"current_price"`
	MarketCap    map[string]decimal.Decimal `json:"market_cap"`
	High24h      map[string]decimal.Decimal `json:"high_24h"`
	Low24h       map[string]decimal.Decimal `json:"low_24h"`
}

// CoinDetail is the single-coin payload of the price index.
type CoinDetail struct {
	ID            string         `json:"id"`
	Symbol        string         `json:"symbol"`
	Name          string         `json:"name"`
	Image         CoinImages     `json:"image"`
	MarketCapRank int            `json:"market_cap_rank"`
	MarketData    CoinMarketData `json:"market_data"`
}

// PricePoint is one sample of a historical price series.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

// PriceHistory is a historical price series for one coin in one currency.
type PriceHistory struct {
	CoinID   string       `json:"coin_id"`
	Currency string       `json:"currency"`
	Days     int          `json:"days"`
	Prices   []PricePoint `json:"prices"`
}

// MarketSnapshot is the markets listing for a currency at a point in time.
// Stale is set when the listing was served from the fallback cache because
// the price index could not be reached.
type MarketSnapshot struct {
	Currency  Currency      `json:"currency"`
	Coins     []CoinSummary `json:"coins"`
	FetchedAt time.Time     `json:"fetched_at"`
	Stale     bool          `json:"stale"`
}

// Filter returns the coins whose ids are in ids, in snapshot order.
func (s MarketSnapshot) Filter(ids []string) []CoinSummary {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]CoinSummary, 0, len(ids))
	for _, c := range s.Coins {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ChartRows renders the series as a header row followed by [label, price]
// rows, with labels formatted as month/day in UTC.
func (h PriceHistory) ChartRows() [][]any {
	rows := make([][]any, 0, len(h.Prices)+1)
	rows = append(rows, []any{"Date", "Prices"})
	for _, p := range h.Prices {
		t := p.Timestamp.UTC()
		label := strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Day())
		price, _ := p.Price.Float64()
		rows = append(rows, []any{label, price})
	}
	return rows
}
