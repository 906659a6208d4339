package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.CoinGeckoBaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("CoinGeckoBaseURL = %q", cfg.CoinGeckoBaseURL)
	}
	if cfg.DefaultCurrency != "usd" {
		t.Errorf("DefaultCurrency = %q, want usd", cfg.DefaultCurrency)
	}
	if cfg.HistoryDays != 10 {
		t.Errorf("HistoryDays = %d, want 10", cfg.HistoryDays)
	}
	if cfg.MailSendEnabled {
		t.Error("MailSendEnabled should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MARKET_CACHE_TTL", "5s")
	t.Setenv("COINGECKO_RATE_PER_SECOND", "2.5")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("HISTORY_DAYS", "not-a-number")

	cfg := Load()
	if cfg.MarketCacheTTL != 5*time.Second {
		t.Errorf("MarketCacheTTL = %v", cfg.MarketCacheTTL)
	}
	if cfg.CoinGeckoRatePerS != 2.5 {
		t.Errorf("CoinGeckoRatePerS = %v", cfg.CoinGeckoRatePerS)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true")
	}
	if cfg.HistoryDays != 10 {
		t.Errorf("invalid HISTORY_DAYS should fall back to 10, got %d", cfg.HistoryDays)
	}
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test ", ElasticsearchAddrs: ""}
	if got, want := cfg.CORSOrigins(), []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CORSOrigins() = %v, want %v", got, want)
	}
	if got := cfg.ESAddrs(); len(got) != 0 {
		t.Errorf("ESAddrs() = %v, want empty", got)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if got, want := cfg.PostgresDSN(), "postgres://u:p@h:5432/d?sslmode=disable"; got != want {
		t.Errorf("PostgresDSN() = %q, want %q", got, want)
	}
}
