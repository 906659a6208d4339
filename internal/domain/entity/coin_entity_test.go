package entity

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestResolveCurrency(t *testing.T) {
	tests := map[string]Currency{
		"usd":  USD,
		"EUR":  EUR,
		" inr": INR,
		"jpy":  USD,
		"":     USD,
	}
	for in, want := range tests {
		if got := ResolveCurrency(in); got != want {
			t.Errorf("ResolveCurrency(%q) = %v, want %v", in, got, want)
		}
	}
	if EUR.ISO() != "EUR" {
		t.Errorf("ISO() = %q", EUR.ISO())
	}
}

func TestCurrenciesReturnsCopy(t *testing.T) {
	cs := Currencies()
	cs[0] = Currency{Code: "xxx"}
	if Currencies()[0] != USD {
		t.Fatal("Currencies() leaked internal slice")
	}
}

func TestChartRows(t *testing.T) {
	h := PriceHistory{Prices: []PricePoint{
		{Timestamp: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), Price: decimal.RequireFromString("64000.5")},
		{Timestamp: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(42)},
	}}
	want := [][]any{{"Date", "Prices"}, {"3/7", 64000.5}, {"12/25", 42.0}}
	if got := h.ChartRows(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ChartRows() = %v, want %v", got, want)
	}
}

func TestSnapshotFilterKeepsSnapshotOrder(t *testing.T) {
	s := MarketSnapshot{Coins: []CoinSummary{{ID: "bitcoin"}, {ID: "ethereum"}, {ID: "solana"}}}
	got := s.Filter([]string{"solana", "bitcoin", "missing"})
	if len(got) != 2 || got[0].ID != "bitcoin" || got[1].ID != "solana" {
		t.Fatalf("Filter() = %+v", got)
	}
}
