package repository

import (
	"context"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
)

// PriceIndex is the external market data source.
type PriceIndex interface {
	Markets(ctx context.Context, currency string) ([]entity.CoinSummary, error)
	Coin(ctx context.Context, id string) (*entity.CoinDetail, error)
	History(ctx context.Context, id, currency string, days int) (*entity.PriceHistory, error)
}

// CoinIndex is a full-text index over market rows.
type CoinIndex interface {
	IndexCoins(ctx context.Context, coins []entity.CoinSummary) error
	SearchCoins(ctx context.Context, query string, size int) ([]entity.CoinSummary, error)
}
