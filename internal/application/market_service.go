package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	repo "github.com/oksasatya/cryptopal/internal/domain/repository"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

const (
	maxHistoryDays   = 365
	maxSearchResults = 10
)

// MarketService serves price index data through a two-level Redis cache.
// The fresh key absorbs request bursts; the stale key keeps the dashboard
// usable while the price index is unreachable.
type MarketService struct {
	Index     repo.PriceIndex
	Redis     redis.Cmdable
	CoinIndex repo.CoinIndex
	Logger    *logrus.Logger

	CacheTTL    time.Duration
	StaleTTL    time.Duration
	HistoryDays int

	now func() time.Time

	mu       sync.RWMutex
	lastGood map[string]entity.MarketSnapshot
}

func NewMarketService(index repo.PriceIndex, logger *logrus.Logger) *MarketService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &MarketService{
		Index:       index,
		Logger:      logger,
		CacheTTL:    time.Minute,
		StaleTTL:    24 * time.Hour,
		HistoryDays: 10,
		now:         time.Now,
		lastGood:    make(map[string]entity.MarketSnapshot),
	}
}

// Stat is one labelled, display-formatted figure of a coin.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CoinView is a coin page: the raw detail plus stats in one currency.
type CoinView struct {
	Coin     *entity.CoinDetail `json:"coin"`
	Currency entity.Currency    `json:"currency"`
	Stats    []Stat             `json:"stats"`
}

// CoinOverview is the coin page together with its chart.
type CoinOverview struct {
	View    *CoinView            `json:"view,omitempty"`
	History *entity.PriceHistory `json:"history,omitempty"`
	Chart   [][]any              `json:"chart,omitempty"`
}

func marketsKey(cur string) string      { return "markets:" + cur }
func staleMarketsKey(cur string) string { return "markets:stale:" + cur }
func coinKey(id string) string          { return "coin:" + id }
func historyKey(id, cur string, days int) string {
	return "history:" + id + ":" + cur + ":" + strconv.Itoa(days)
}

func (s *MarketService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Currencies lists the supported quote currencies.
func (s *MarketService) Currencies() []entity.Currency {
	return entity.Currencies()
}

// Markets returns the markets listing for currency. Unknown currencies fall
// back to usd. When the price index fails the last good listing is served
// with Stale set; with nothing cached the upstream error is returned.
func (s *MarketService) Markets(ctx context.Context, currency string) (*entity.MarketSnapshot, error) {
	cur := entity.ResolveCurrency(currency)

	var cached entity.MarketSnapshot
	if cacheGet(ctx, s, marketsKey(cur.Code), &cached) {
		return &cached, nil
	}

	coins, err := s.Index.Markets(ctx, cur.Code)
	if err != nil {
		s.Logger.WithError(err).WithField("currency", cur.Code).Warn("markets fetch failed")
		if snap, ok := s.staleMarkets(ctx, cur.Code); ok {
			snap.Stale = true
			return &snap, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPriceIndexDown, err)
	}

	snap := entity.MarketSnapshot{Currency: cur, Coins: coins, FetchedAt: s.clock().UTC()}
	s.cacheSet(ctx, marketsKey(cur.Code), snap, s.CacheTTL)
	s.cacheSet(ctx, staleMarketsKey(cur.Code), snap, s.StaleTTL)
	s.remember(cur.Code, snap)
	s.indexCoins(ctx, coins)
	return &snap, nil
}

func (s *MarketService) staleMarkets(ctx context.Context, cur string) (entity.MarketSnapshot, bool) {
	var snap entity.MarketSnapshot
	if cacheGet(ctx, s, staleMarketsKey(cur), &snap) {
		return snap, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.lastGood[cur]
	return snap, ok
}

func (s *MarketService) remember(cur string, snap entity.MarketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastGood == nil {
		s.lastGood = make(map[string]entity.MarketSnapshot)
	}
	s.lastGood[cur] = snap
}

func (s *MarketService) indexCoins(ctx context.Context, coins []entity.CoinSummary) {
	if s.CoinIndex == nil {
		return
	}
	if err := s.CoinIndex.IndexCoins(ctx, coins); err != nil {
		s.Logger.WithError(err).Warn("coin indexing failed")
	}
}

// Coin returns the coin page for id in currency.
func (s *MarketService) Coin(ctx context.Context, id, currency string) (*CoinView, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	cur := entity.ResolveCurrency(currency)

	var detail entity.CoinDetail
	if !cacheGet(ctx, s, coinKey(id), &detail) {
		d, err := s.Index.Coin(ctx, id)
		if err != nil {
			return nil, s.upstreamError(err, id)
		}
		detail = *d
		s.cacheSet(ctx, coinKey(id), detail, s.CacheTTL)
	}
	return &CoinView{Coin: &detail, Currency: cur, Stats: CoinStats(&detail, cur)}, nil
}

// History returns the daily price series of id. days <= 0 uses the default window.
func (s *MarketService) History(ctx context.Context, id, currency string, days int) (*entity.PriceHistory, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	cur := entity.ResolveCurrency(currency)
	if days <= 0 {
		days = s.HistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	key := historyKey(id, cur.Code, days)
	var h entity.PriceHistory
	if cacheGet(ctx, s, key, &h) {
		return &h, nil
	}
	got, err := s.Index.History(ctx, id, cur.Code, days)
	if err != nil {
		return nil, s.upstreamError(err, id)
	}
	s.cacheSet(ctx, key, got, s.CacheTTL)
	return got, nil
}

// Overview loads the coin page and its chart concurrently. When one half
// fails the other is still returned, together with ErrIncompleteCoinData.
func (s *MarketService) Overview(ctx context.Context, id, currency string) (*CoinOverview, error) {
	var (
		out              CoinOverview
		viewErr, histErr error
	)
	// each half reports its own error so one failure never cancels the other
	var g errgroup.Group
	g.Go(func() error {
		out.View, viewErr = s.Coin(ctx, id, currency)
		return nil
	})
	g.Go(func() error {
		out.History, histErr = s.History(ctx, id, currency, 0)
		return nil
	})
	_ = g.Wait()

	if out.History != nil {
		out.Chart = out.History.ChartRows()
	}
	switch {
	case viewErr == nil && histErr == nil:
		return &out, nil
	case errors.Is(viewErr, ErrCoinNotFound):
		return nil, viewErr
	case viewErr != nil && histErr != nil:
		return nil, viewErr
	default:
		err := viewErr
		if err == nil {
			err = histErr
		}
		s.Logger.WithError(err).WithField("coin_id", id).Warn("coin overview incomplete")
		return &out, fmt.Errorf("%w: %v", ErrIncompleteCoinData, err)
	}
}

// Search matches coins by name or symbol. Elasticsearch is used when
// configured; hits are resolved against the currency's listing so prices
// stay in the requested currency.
func (s *MarketService) Search(ctx context.Context, query, currency string, size int) ([]entity.CoinSummary, error) {
	query = strings.TrimSpace(query)
	if size <= 0 {
		size = maxSearchResults
	}
	size = min(size, maxSearchResults)
	snap, err := s.Markets(ctx, currency)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return []entity.CoinSummary{}, nil
	}

	if s.CoinIndex != nil {
		hits, sErr := s.CoinIndex.SearchCoins(ctx, query, size)
		if sErr == nil {
			return resolveHits(hits, snap.Coins), nil
		}
		s.Logger.WithError(sErr).Warn("coin search failed, falling back to listing scan")
	}
	return substringMatch(snap.Coins, query, size), nil
}

func resolveHits(hits, coins []entity.CoinSummary) []entity.CoinSummary {
	byID := make(map[string]entity.CoinSummary, len(coins))
	for _, c := range coins {
		byID[c.ID] = c
	}
	out := make([]entity.CoinSummary, 0, len(hits))
	for _, h := range hits {
		if c, ok := byID[h.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

func substringMatch(coins []entity.CoinSummary, query string, size int) []entity.CoinSummary {
	q := strings.ToLower(query)
	out := make([]entity.CoinSummary, 0)
	for _, c := range coins {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Symbol), q) {
			out = append(out, c)
			if len(out) == size {
				break
			}
		}
	}
	return out
}

// CoinStats renders the headline figures of a coin in cur.
func CoinStats(d *entity.CoinDetail, cur entity.Currency) []Stat {
	money := func(m map[string]decimal.Decimal) string {
		v, ok := m[cur.Code]
		if !ok {
			return "-"
		}
		return helpers.FormatMoney(v, cur.ISO(), cur.Symbol)
	}
	rank := "-"
	if d.MarketCapRank > 0 {
		rank = strconv.Itoa(d.MarketCapRank)
	}
	return []Stat{
		{Label: "Crypto Market Rank", Value: rank},
		{Label: "Current Price", Value: money(d.MarketData.CurrentPrice)},
		{Label: "Market Cap", Value: money(d.MarketData.MarketCap)},
		{Label: "24 Hour High", Value: money(d.MarketData.High24h)},
		{Label: "24 Hour Low", Value: money(d.MarketData.Low24h)},
	}
}

func (s *MarketService) upstreamError(err error, id string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCoinNotFound
	}
	s.Logger.WithError(err).WithField("coin_id", id).Warn("price index request failed")
	return fmt.Errorf("%w: %v", ErrPriceIndexDown, err)
}

func cacheGet[T any](ctx context.Context, s *MarketService, key string, dest *T) bool {
	if s.Redis == nil {
		return false
	}
	ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, dest)
	if err != nil {
		s.Logger.WithError(err).WithField("key", key).Debug("cache read failed")
		return false
	}
	return ok
}

func (s *MarketService) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.Redis == nil || ttl <= 0 {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, key, value, ttl); err != nil {
		s.Logger.WithError(err).WithField("key", key).Debug("cache write failed")
	}
}
