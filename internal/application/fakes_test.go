package application

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	repo "github.com/oksasatya/cryptopal/internal/domain/repository"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

func init() {
	helpers.PasswordCost = 4
}

type memRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error // returned by every call when set
	sets  int
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*entity.User)}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Favorites = append([]string(nil), u.Favorites...)
	return &c
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, ex := range r.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return repo.ErrDuplicateEmail
		}
		if u.GoogleSub != "" && ex.GoogleSub == u.GoogleSub {
			return repo.ErrDuplicateGoogleSub
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = clone(u)
	return nil
}

func (r *memRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memRepo) GetByGoogleSub(_ context.Context, sub string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return sub != "" && u.GoogleSub == sub })
}

func (r *memRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	r.users[u.ID] = clone(u)
	return nil
}

func (r *memRepo) SetFavorites(_ context.Context, id string, favorites []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Favorites = append([]string(nil), favorites...)
	r.sets++
	return nil
}

type offlineFlag bool

func (o offlineFlag) IsOffline() bool { return bool(o) }

type fakeIndex struct {
	mu      sync.Mutex
	markets map[string][]entity.CoinSummary
	coins   map[string]*entity.CoinDetail
	history map[string]*entity.PriceHistory
	err     error
	coinErr error
	histErr error
	calls   int
}

func (f *fakeIndex) Markets(_ context.Context, currency string) ([]entity.CoinSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.markets[currency], nil
}

func (f *fakeIndex) Coin(_ context.Context, id string) (*entity.CoinDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.coinErr != nil {
		return nil, f.coinErr
	}
	d, ok := f.coins[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return d, nil
}

func (f *fakeIndex) History(_ context.Context, id, currency string, days int) (*entity.PriceHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.histErr != nil {
		return nil, f.histErr
	}
	h, ok := f.history[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := *h
	out.Currency, out.Days = currency, days
	return &out, nil
}

type fakeSearch struct {
	indexed []entity.CoinSummary
	hits    []entity.CoinSummary
	err     error
}

func (f *fakeSearch) IndexCoins(_ context.Context, coins []entity.CoinSummary) error {
	f.indexed = append(f.indexed, coins...)
	return nil
}

func (f *fakeSearch) SearchCoins(_ context.Context, _ string, _ int) ([]entity.CoinSummary, error) {
	return f.hits, f.err
}

type fakeVerifier struct {
	id  *helpers.GoogleIdentity
	err error
}

func (f fakeVerifier) Verify(_ context.Context, _ string) (*helpers.GoogleIdentity, error) {
	return f.id, f.err
}

type fakePublisher struct {
	jobs []any
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.jobs = append(f.jobs, body)
	return nil
}

type memAvatars struct {
	paths []string
}

func (m *memAvatars) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	m.paths = append(m.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

// staleSubRepo misses the first Google subject lookup, as if a concurrent
// sign-in bound the subject right after it.
type staleSubRepo struct {
	*memRepo
	missed bool
}

func (r *staleSubRepo) GetByGoogleSub(ctx context.Context, sub string) (*entity.User, error) {
	if !r.missed {
		r.missed = true
		return nil, repo.ErrNotFound
	}
	return r.memRepo.GetByGoogleSub(ctx, sub)
}
