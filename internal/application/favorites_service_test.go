package application

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
)

func seedUser(t *testing.T, r *memRepo, favorites ...string) string {
	t.Helper()
	u := &entity.User{Email: "fav@example.com", Name: "Fav", Favorites: favorites}
	if err := r.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u.ID
}

func TestFavoritesAddRemove(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	uid := seedUser(t, r)
	s := NewFavoritesService(r, offlineFlag(false), nil, nil)

	if ok, err := s.Add(ctx, uid, "bitcoin"); !ok || err != nil {
		t.Fatalf("Add = %v, %v", ok, err)
	}
	if ok, _ := s.Add(ctx, uid, "bitcoin"); ok {
		t.Fatal("second Add should report no change")
	}
	if r.sets != 1 {
		t.Fatalf("writes = %d, want 1", r.sets)
	}
	if !s.IsFavorite(ctx, uid, "bitcoin") {
		t.Fatal("bitcoin should be a favorite")
	}

	if ok, err := s.Remove(ctx, uid, "ethereum"); !ok || err != nil {
		t.Fatalf("Remove of absent coin = %v, %v; want true", ok, err)
	}
	if ok, _ := s.Remove(ctx, uid, "bitcoin"); !ok {
		t.Fatal("Remove should report true")
	}
	if s.IsFavorite(ctx, uid, "bitcoin") {
		t.Fatal("bitcoin should be removed")
	}
}

func TestFavoritesEdgeCases(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	uid := seedUser(t, r)

	s := NewFavoritesService(r, offlineFlag(false), nil, nil)
	if ok, err := s.Add(ctx, "", "bitcoin"); ok || err != nil {
		t.Errorf("empty uid = %v, %v", ok, err)
	}
	if ok, err := s.Add(ctx, "missing", "bitcoin"); ok || err != nil {
		t.Errorf("missing user = %v, %v", ok, err)
	}
	if ok, _ := s.manage(ctx, uid, "bitcoin", entity.FavoriteAction("star")); ok {
		t.Error("unknown action should report false")
	}

	off := NewFavoritesService(r, offlineFlag(true), nil, nil)
	if _, err := off.Add(ctx, uid, "bitcoin"); !errors.Is(err, ErrFavoritesOffline) {
		t.Errorf("offline Add err = %v", err)
	}
	if _, err := off.Toggle(ctx, uid, "bitcoin"); !errors.Is(err, ErrFavoritesOffline) {
		t.Errorf("offline Toggle err = %v", err)
	}

	boom := errors.New("boom")
	r.err = boom
	if _, err := s.Add(ctx, uid, "bitcoin"); !errors.Is(err, boom) {
		t.Errorf("repo failure err = %v", err)
	}
	if s.IsFavorite(ctx, uid, "bitcoin") {
		t.Error("IsFavorite should read errors as false")
	}
}

func TestIsFavoriteOffline(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	uid := seedUser(t, r, "bitcoin")

	if !NewFavoritesService(r, offlineFlag(false), nil, nil).IsFavorite(ctx, uid, "bitcoin") {
		t.Fatal("online IsFavorite(bitcoin) = false, want true")
	}
	if NewFavoritesService(r, offlineFlag(true), nil, nil).IsFavorite(ctx, uid, "bitcoin") {
		t.Error("offline IsFavorite(bitcoin) = true, want false")
	}
}

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	uid := seedUser(t, r, "dogecoin")
	s := NewFavoritesService(r, nil, nil, nil)

	if on, err := s.Toggle(ctx, uid, "bitcoin"); !on || err != nil {
		t.Fatalf("Toggle on = %v, %v", on, err)
	}
	if on, err := s.Toggle(ctx, uid, "dogecoin"); on || err != nil {
		t.Fatalf("Toggle off = %v, %v", on, err)
	}
	got, _ := s.List(ctx, uid)
	if !reflect.DeepEqual(got, []string{"bitcoin"}) {
		t.Fatalf("List = %v", got)
	}
}

func TestFavoritesMarkets(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	uid := seedUser(t, r, "ethereum", "bitcoin")
	idx := &fakeIndex{markets: map[string][]entity.CoinSummary{
		"eur": {
			{ID: "bitcoin", CurrentPrice: decimal.NewFromInt(60000)},
			{ID: "ethereum", CurrentPrice: decimal.NewFromInt(3000)},
			{ID: "solana", CurrentPrice: decimal.NewFromInt(150)},
		},
	}}
	s := NewFavoritesService(r, nil, NewMarketService(idx, nil), nil)

	snap, err := s.Markets(ctx, uid, "eur")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Coins) != 2 || snap.Coins[0].ID != "bitcoin" || snap.Coins[1].ID != "ethereum" {
		t.Fatalf("coins = %+v", snap.Coins)
	}
	if snap.Currency != entity.EUR {
		t.Errorf("currency = %+v", snap.Currency)
	}
}
