package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// CoinIndex stores market rows in Elasticsearch for name/symbol search.
type CoinIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewCoinIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *CoinIndex {
	return &CoinIndex{ES: es, Index: index, Logger: logger}
}

// coinsMapping indexes name and symbol for as-you-type matching.
func coinsMapping() map[string]any {
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":              map[string]any{"type": "keyword"},
				"symbol":          map[string]any{"type": "search_as_you_type"},
				"name":            map[string]any{"type": "search_as_you_type"},
				"image":           map[string]any{"type": "keyword", "index": false},
				"market_cap_rank": map[string]any{"type": "integer"},
			},
		},
	}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (ix *CoinIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{ix.Index}}.Do(c, ix.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	body, err := json.Marshal(coinsMapping())
	if err != nil {
		return err
	}
	res, err := esapi.IndicesCreateRequest{Index: ix.Index, Body: bytes.NewReader(body)}.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a concurrent creator wins the race; that is fine
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index %s: %s", ix.Index, res.Status())
	}
	if ix.Logger != nil {
		ix.Logger.WithField("index", ix.Index).Info("coin index ready")
	}
	return nil
}

// IndexCoins upserts coins with a single bulk request keyed by coin id.
func (ix *CoinIndex) IndexCoins(ctx context.Context, coins []entity.CoinSummary) error {
	if len(coins) == 0 {
		return nil
	}
	body, err := bulkBody(ix.Index, coins)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.BulkRequest{Body: bytes.NewReader(body), Refresh: "false"}
	res, err := req.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es bulk index: %s", res.Status())
	}
	if ix.Logger != nil {
		ix.Logger.WithField("count", len(coins)).Debug("coins indexed")
	}
	return nil
}

// SearchCoins runs a prefix-friendly multi_match on name, symbol and id.
func (ix *CoinIndex) SearchCoins(ctx context.Context, q string, size int) ([]entity.CoinSummary, error) {
	body, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.CoinSummary `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.CoinSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func searchQuery(q string, size int) map[string]any {
	if size <= 0 || size > 50 {
		size = 10
	}
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  strings.TrimSpace(q),
				"type":   "bool_prefix",
				"fields": []string{"symbol^3", "name^2", "id"},
			},
		},
		"size": size,
	}
}

func bulkBody(index string, coins []entity.CoinSummary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range coins {
		meta := map[string]any{"index": map[string]any{"_index": index, "_id": c.ID}}
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

var _ repository.CoinIndex = (*CoinIndex)(nil)
