package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrDuplicateGoogleSub means the Google account is bound to another user.
	ErrDuplicateGoogleSub = errors.New("google account already linked")
)

// UserRepository defines the interface for user-related database operations.
// The user row doubles as the per-user document holding favorites.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// SetFavorites overwrites the stored favorites list (last writer wins).
	SetFavorites(ctx context.Context, id string, favorites []string) error
}
