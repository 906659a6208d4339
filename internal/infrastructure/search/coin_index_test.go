package search

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
)

func TestBulkBodyIsNDJSON(t *testing.T) {
	body, err := bulkBody("coins", []entity.CoinSummary{{ID: "bitcoin", Symbol: "btc"}, {ID: "ethereum", Symbol: "eth"}})
	if err != nil {
		t.Fatalf("bulkBody() error = %v", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(body))
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %q is not JSON: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	meta := lines[2]["index"].(map[string]any)
	if meta["_id"] != "ethereum" || meta["_index"] != "coins" {
		t.Errorf("meta = %v", meta)
	}
	if lines[3]["symbol"] != "eth" {
		t.Errorf("doc = %v", lines[3])
	}
}

func TestSearchQueryClampsSize(t *testing.T) {
	for _, size := range []int{0, -1, 500} {
		if got := searchQuery("btc", size)["size"]; got != 10 {
			t.Errorf("size %d clamped to %v, want 10", size, got)
		}
	}
	if got := searchQuery(" eth ", 5)["size"]; got != 5 {
		t.Errorf("size = %v, want 5", got)
	}
}

func newFakeES(t *testing.T, h http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatal(err)
	}
	return es
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	var created map[string]any
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&created)
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ix := NewCoinIndex(es, "coins", nil)
	if err := ix.EnsureIndex(context.Background()); err != nil {
		t.Fatal(err)
	}
	props := created["mappings"].(map[string]any)["properties"].(map[string]any)
	if props["name"].(map[string]any)["type"] != "search_as_you_type" {
		t.Fatalf("mapping = %v", props)
	}
}

func TestSearchCoinsDecodesHits(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/coins/_search") {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":"ethereum","symbol":"eth","name":"Ethereum"}}]}}`))
	})
	got, err := NewCoinIndex(es, "coins", nil).SearchCoins(context.Background(), "eth", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "ethereum" {
		t.Fatalf("hits = %+v", got)
	}
}
