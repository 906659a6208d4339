package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	repo "github.com/oksasatya/cryptopal/internal/domain/repository"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// FavoritesService keeps the per-user favorites list. Writes are
// read-modify-write on the user document; concurrent writers race and the
// last one wins.
type FavoritesService struct {
	Repo      repo.UserRepository
	Net       OfflineChecker
	MarketSvc *MarketService
	Logger    *logrus.Logger
}

func NewFavoritesService(r repo.UserRepository, net OfflineChecker, markets *MarketService, logger *logrus.Logger) *FavoritesService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &FavoritesService{Repo: r, Net: net, MarketSvc: markets, Logger: logger}
}

func (s *FavoritesService) offline() bool {
	return s.Net != nil && s.Net.IsOffline()
}

// Add stores coinID; false means nothing changed.
func (s *FavoritesService) Add(ctx context.Context, userID, coinID string) (bool, error) {
	return s.manage(ctx, userID, coinID, entity.FavoriteAdd)
}

// Remove drops coinID. It reports true whenever the user exists.
func (s *FavoritesService) Remove(ctx context.Context, userID, coinID string) (bool, error) {
	return s.manage(ctx, userID, coinID, entity.FavoriteRemove)
}

func (s *FavoritesService) manage(ctx context.Context, userID, coinID string, action entity.FavoriteAction) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if s.offline() {
		return false, ErrFavoritesOffline
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		s.logFailure(err, userID, coinID, action)
		return false, err
	}

	next, changed := entity.ApplyFavorite(u.Favorites, coinID, action)
	if !changed {
		return false, nil
	}
	if err := s.Repo.SetFavorites(ctx, userID, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		s.logFailure(err, userID, coinID, action)
		return false, err
	}
	return true, nil
}

// Toggle flips coinID and returns whether it is a favorite afterwards.
func (s *FavoritesService) Toggle(ctx context.Context, userID, coinID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if s.offline() {
		return false, ErrFavoritesOffline
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	action, nowFavorite := entity.FavoriteAdd, true
	if u.IsFavorite(coinID) {
		action, nowFavorite = entity.FavoriteRemove, false
	}
	next, _ := entity.ApplyFavorite(u.Favorites, coinID, action)
	if err := s.Repo.SetFavorites(ctx, userID, next); err != nil {
		s.logFailure(err, userID, coinID, action)
		return false, err
	}
	return nowFavorite, nil
}

// IsFavorite never fails: lookup errors are logged and read as false.
// While offline the status is always false.
func (s *FavoritesService) IsFavorite(ctx context.Context, userID, coinID string) bool {
	if userID == "" || s.offline() {
		return false
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("error checking favorite status")
		}
		return false
	}
	return u.IsFavorite(coinID)
}

func (s *FavoritesService) List(ctx context.Context, userID string) ([]string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.Favorites == nil {
		return []string{}, nil
	}
	return u.Favorites, nil
}

// Markets returns the current market rows of the user's favorites.
func (s *FavoritesService) Markets(ctx context.Context, userID, currency string) (*entity.MarketSnapshot, error) {
	ids, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := s.MarketSvc.Markets(ctx, currency)
	if err != nil {
		return nil, err
	}
	out := *snap
	out.Coins = snap.Filter(ids)
	return &out, nil
}

func (s *FavoritesService) logFailure(err error, userID, coinID string, action entity.FavoriteAction) {
	msg := "error adding to favorites"
	if action == entity.FavoriteRemove {
		msg = "error removing from favorites"
	}
	s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "coin_id": coinID}).Error(msg)
}
