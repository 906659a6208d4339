package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/internal/domain/repository"
)

const (
	uniqueViolation = "23505"

	emailConstraint     = "users_email_key"
	googleSubConstraint = "users_google_sub_idx"
)

const userColumns = `id, email, password_hash, name, avatar_url, provider, google_sub, favorites, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	if u.Provider == "" {
		u.Provider = entity.ProviderPassword
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, avatar_url, provider, google_sub, favorites)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.AvatarURL, u.Provider, nullable(u.GoogleSub), u.Favorites)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) GetByGoogleSub(ctx context.Context, sub string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_sub = $1`, sub)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, avatar_url = $4,
		    provider = $5, google_sub = $6, favorites = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.Password, u.Name, u.AvatarURL, u.Provider, nullable(u.GoogleSub), nonNil(u.Favorites), u.UpdatedAt, u.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetFavorites(ctx context.Context, id string, favorites []string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET favorites = $1, updated_at = now() WHERE id = $2
	`, nonNil(favorites), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	var googleSub *string

	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.AvatarURL,
		&u.Provider, &googleSub, &u.Favorites, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if googleSub != nil {
		u.GoogleSub = *googleSub
	}
	return u, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case emailConstraint:
		return repository.ErrDuplicateEmail
	case googleSubConstraint:
		return repository.ErrDuplicateGoogleSub
	}
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)
