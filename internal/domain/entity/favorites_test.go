package entity

import (
	"reflect"
	"testing"
)

func TestApplyFavorite(t *testing.T) {
	tests := []struct {
		name        string
		list        []string
		coinID      string
		action      FavoriteAction
		want        []string
		wantChanged bool
	}{
		{"add to empty", nil, "bitcoin", FavoriteAdd, []string{"bitcoin"}, true},
		{"add new", []string{"bitcoin"}, "ethereum", FavoriteAdd, []string{"bitcoin", "ethereum"}, true},
		{"add existing", []string{"bitcoin"}, "bitcoin", FavoriteAdd, []string{"bitcoin"}, false},
		{"remove existing", []string{"bitcoin", "ethereum"}, "bitcoin", FavoriteRemove, []string{"ethereum"}, true},
		{"remove absent still writes", []string{"bitcoin"}, "dogecoin", FavoriteRemove, []string{"bitcoin"}, true},
		{"remove duplicates", []string{"a", "b", "a"}, "a", FavoriteRemove, []string{"b"}, true},
		{"unknown action", []string{"bitcoin"}, "ethereum", FavoriteAction("flip"), []string{"bitcoin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ApplyFavorite(tt.list, tt.coinID, tt.action)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("list = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyFavoriteDoesNotMutateInput(t *testing.T) {
	in := make([]string, 2, 8)
	in[0], in[1] = "bitcoin", "ethereum"

	added, _ := ApplyFavorite(in, "solana", FavoriteAdd)
	added[0] = "changed"
	if in[0] != "bitcoin" {
		t.Fatalf("add mutated input: %v", in)
	}

	ApplyFavorite(in, "bitcoin", FavoriteRemove)
	if !reflect.DeepEqual(in, []string{"bitcoin", "ethereum"}) {
		t.Fatalf("remove mutated input: %v", in)
	}
}

func TestDefaultDisplayName(t *testing.T) {
	tests := []struct {
		explicit, provider, email, want string
	}{
		{"Alice", "Google Alice", "a@x.io", "Alice"},
		{"  ", "Google Alice", "a@x.io", "Google Alice"},
		{"", "", "satoshi@x.io", "satoshi"},
		{"", "", "", "User"},
		{"", "", "@x.io", "User"},
	}
	for _, tt := range tests {
		if got := DefaultDisplayName(tt.explicit, tt.provider, tt.email); got != tt.want {
			t.Errorf("DefaultDisplayName(%q, %q, %q) = %q, want %q", tt.explicit, tt.provider, tt.email, got, tt.want)
		}
	}
}

func TestUserIsFavorite(t *testing.T) {
	u := &User{Favorites: []string{"bitcoin"}}
	if !u.IsFavorite("bitcoin") || u.IsFavorite("ethereum") {
		t.Fatal("IsFavorite mismatch")
	}
	var nilUser *User
	if nilUser.IsFavorite("bitcoin") {
		t.Fatal("nil user has no favorites")
	}
}
