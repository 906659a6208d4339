package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/cryptopal/config"
	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/internal/domain/repository"
	pginfra "github.com/oksasatya/cryptopal/internal/infrastructure/postgres"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// demo account with a few favorites for local dashboards
const (
	demoEmail    = "demo@cryptopal.local"
	demoPassword = "password123"
	demoName     = "Demo User"
)

var demoFavorites = []string{"bitcoin", "ethereum", "solana"}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	users := pginfra.NewUserRepository(pool)

	u, err := users.GetByEmail(ctx, demoEmail)
	switch {
	case err == nil:
		fmt.Printf("user exists: id=%s email=%s\n", u.ID, u.Email)
	case errors.Is(err, repository.ErrNotFound):
		hash, hErr := helpers.HashPassword(demoPassword)
		if hErr != nil {
			log.Fatalf("failed to hash password: %v", hErr)
		}
		u = &entity.User{
			Email:     demoEmail,
			Password:  hash,
			Name:      demoName,
			Provider:  entity.ProviderPassword,
			Favorites: []string{},
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, demoEmail, demoPassword)
	default:
		log.Fatalf("failed to look up user: %v", err)
	}

	favorites := u.Favorites
	for _, id := range demoFavorites {
		favorites, _ = entity.ApplyFavorite(favorites, id, entity.FavoriteAdd)
	}
	if err := users.SetFavorites(ctx, u.ID, favorites); err != nil {
		log.Fatalf("failed to seed favorites: %v", err)
	}
	fmt.Printf("favorites: %v\n", favorites)
}
