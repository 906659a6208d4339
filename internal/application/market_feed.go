package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// MarketSource yields market listings.
type MarketSource interface {
	Markets(ctx context.Context, currency string) (*entity.MarketSnapshot, error)
}

type feedSubscriber struct {
	ch   chan entity.MarketSnapshot
	once sync.Once
}

// MarketFeed polls the markets listing for every currency that has
// subscribers and fans each snapshot out. Slow receivers only ever see the
// newest snapshot; the poll loop never blocks on them.
type MarketFeed struct {
	Source   MarketSource
	Interval time.Duration
	Logger   *logrus.Logger

	mu   sync.Mutex
	subs map[string]map[*feedSubscriber]struct{}
	last map[string]entity.MarketSnapshot
}

func NewMarketFeed(src MarketSource, interval time.Duration, logger *logrus.Logger) *MarketFeed {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &MarketFeed{
		Source:   src,
		Interval: interval,
		Logger:   logger,
		subs:     make(map[string]map[*feedSubscriber]struct{}),
		last:     make(map[string]entity.MarketSnapshot),
	}
}

// Subscribe registers a receiver for currency. The last known snapshot, if
// any, is delivered right away. cancel closes the channel and is idempotent.
func (f *MarketFeed) Subscribe(currency string) (<-chan entity.MarketSnapshot, func()) {
	cur := entity.ResolveCurrency(currency).Code
	sub := &feedSubscriber{ch: make(chan entity.MarketSnapshot, 1)}

	f.mu.Lock()
	set, ok := f.subs[cur]
	if !ok {
		set = make(map[*feedSubscriber]struct{})
		f.subs[cur] = set
	}
	set[sub] = struct{}{}
	if snap, ok := f.last[cur]; ok {
		sub.ch <- snap
	}
	f.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			f.mu.Lock()
			delete(f.subs[cur], sub)
			if len(f.subs[cur]) == 0 {
				delete(f.subs, cur)
			}
			f.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Subscribers returns the number of receivers for currency.
func (f *MarketFeed) Subscribers(currency string) int {
	cur := entity.ResolveCurrency(currency).Code
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[cur])
}

func (f *MarketFeed) activeCurrencies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.subs))
	for cur := range f.subs {
		out = append(out, cur)
	}
	return out
}

// PollOnce fetches and broadcasts one round.
func (f *MarketFeed) PollOnce(ctx context.Context) {
	for _, cur := range f.activeCurrencies() {
		snap, err := f.Source.Markets(ctx, cur)
		if err != nil {
			f.Logger.WithError(err).WithField("currency", cur).Warn("market feed poll failed")
			continue
		}
		f.Broadcast(*snap)
	}
}

// Broadcast delivers snap to the subscribers of its currency, replacing any
// snapshot they have not consumed yet.
func (f *MarketFeed) Broadcast(snap entity.MarketSnapshot) {
	cur := snap.Currency.Code
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[cur] = snap
	for sub := range f.subs[cur] {
		select {
		case sub.ch <- snap:
			continue
		default:
		}
		// drop the unread snapshot, then retry once
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snap:
		default:
		}
	}
}

// Run polls every Interval until ctx is done.
func (f *MarketFeed) Run(ctx context.Context) {
	t := time.NewTicker(f.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.PollOnce(ctx)
		}
	}
}
