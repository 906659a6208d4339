// Package coingecko is a client for the CoinGecko public price index.
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/internal/domain/repository"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	apiKeyHeader   = "x-cg-demo-api-key"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("coingecko: circuit open")

// APIError is a non-2xx answer from the price index.
type APIError struct {
	Status   int
	Endpoint string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko: GET %s: %d %s", e.Endpoint, e.Status, http.StatusText(e.Status))
}

// Unwrap lets callers match a 404 with repository.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return repository.ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the price index.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Limiter    *RateLimiter
	Breaker    *Breaker
	Logger     *logrus.Logger
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *RateLimiter
	breaker *Breaker
	logger  *logrus.Logger
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	br := opts.Breaker
	if br == nil {
		br = NewBreaker(DefaultBreakerConfig(), opts.Logger)
	}
	return &Client{baseURL: base, apiKey: opts.APIKey, http: hc, limiter: opts.Limiter, breaker: br, logger: opts.Logger}
}

// Breaker exposes the client's circuit breaker for health reporting.
func (c *Client) Breaker() *Breaker { return c.breaker }

// Markets lists coins ordered by market cap in the given quote currency.
func (c *Client) Markets(ctx context.Context, currency string) ([]entity.CoinSummary, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	var out []entity.CoinSummary
	if err := c.get(ctx, "/coins/markets", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Coin fetches the detail document of a coin.
func (c *Client) Coin(ctx context.Context, id string) (*entity.CoinDetail, error) {
	var out entity.CoinDetail
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type marketChart struct {
	Prices [][2]decimal.Decimal `json:"prices"`
}

// History fetches a daily price series covering the last days days.
func (c *Client) History(ctx context.Context, id, currency string, days int) (*entity.PriceHistory, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", "daily")
	var chart marketChart
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", q, &chart); err != nil {
		return nil, err
	}
	h := &entity.PriceHistory{CoinID: id, Currency: currency, Days: days, Prices: make([]entity.PricePoint, 0, len(chart.Prices))}
	for _, p := range chart.Prices {
		h.Prices = append(h.Prices, entity.PricePoint{
			Timestamp: time.UnixMilli(p[0].IntPart()).UTC(),
			Price:     p[1],
		})
	}
	return h, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	if !c.breaker.Allow() {
		return ErrCircuitOpen
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	addr := c.baseURL + path
	if len(q) > 0 {
		addr += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return fmt.Errorf("coingecko: GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"path":        path,
			"status":      resp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("price index request")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return &APIError{Status: resp.StatusCode, Endpoint: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.breaker.RecordFailure()
		return fmt.Errorf("coingecko: decode %s: %w", path, err)
	}
	c.breaker.RecordSuccess()
	return nil
}

var _ repository.PriceIndex = (*Client)(nil)
