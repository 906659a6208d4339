package application

import (
	"context"
	"testing"
	"time"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
)

func TestMarketFeedBroadcast(t *testing.T) {
	f := NewMarketFeed(NewMarketService(sampleIndex(), nil), time.Hour, nil)

	ch, cancel := f.Subscribe("usd")
	eur, cancelEUR := f.Subscribe("eur")
	defer cancelEUR()

	f.PollOnce(context.Background())
	select {
	case snap := <-ch:
		if len(snap.Coins) != 3 {
			t.Fatalf("coins = %d", len(snap.Coins))
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	select {
	case snap := <-eur:
		if snap.Currency != entity.EUR {
			t.Fatalf("eur subscriber got %s", snap.Currency.Code)
		}
	default:
		t.Fatal("eur subscriber should receive its own listing")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
	if n := f.Subscribers("usd"); n != 0 {
		t.Fatalf("subscribers = %d", n)
	}
}

func TestMarketFeedKeepsNewestForSlowReceivers(t *testing.T) {
	f := NewMarketFeed(nil, time.Hour, nil)
	ch, cancel := f.Subscribe("usd")
	defer cancel()

	for i := 1; i <= 3; i++ {
		f.Broadcast(entity.MarketSnapshot{Currency: entity.USD, FetchedAt: time.Unix(int64(i), 0)})
	}
	snap := <-ch
	if snap.FetchedAt.Unix() != 3 {
		t.Fatalf("got snapshot %d, want newest", snap.FetchedAt.Unix())
	}

	late, cancelLate := f.Subscribe("usd")
	defer cancelLate()
	if (<-late).FetchedAt.Unix() != 3 {
		t.Fatal("new subscriber should get the last snapshot")
	}
}
