package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	repo "github.com/oksasatya/cryptopal/internal/domain/repository"
	"github.com/oksasatya/cryptopal/pkg/helpers"
	"github.com/oksasatya/cryptopal/pkg/mailer"
	tpl "github.com/oksasatya/cryptopal/pkg/mailer/templates"
)

// IdentityVerifier validates federated identity tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*helpers.GoogleIdentity, error)
}

// JobPublisher enqueues background jobs.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStore persists uploaded profile images and returns their public URL.
type AvatarStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// MailSettings fills the links of transactional emails.
type MailSettings struct {
	Enabled      bool
	CompanyName  string
	DashboardURL string
	SupportURL   string
}

type Service struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Logger     *logrus.Logger
	SessionTTL time.Duration

	Identity IdentityVerifier
	Net      OfflineChecker
	Mail     JobPublisher
	MailCfg  MailSettings
	Avatars  AvatarStore
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AuthResult is returned by every sign-in flow.
type AuthResult struct {
	User    *entity.User
	Tokens  TokenPair
	Created bool
}

func SessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Service{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger, SessionTTL: 24 * time.Hour}
}

func (s *Service) offline() bool {
	return s.Net != nil && s.Net.IsOffline()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password account and signs it in.
func (s *Service) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	if s.offline() {
		return nil, ErrServiceOffline
	}
	email = normalizeEmail(email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     email,
		Password:  hash,
		Name:      entity.DefaultDisplayName(name, "", email),
		Provider:  entity.ProviderPassword,
		Favorites: []string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	s.enqueueEmail(ctx, u, tpl.Welcome)

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair, Created: true}, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() {
		// federated-only account
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrWrongPassword
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if s.offline() {
		return nil, ErrServiceOffline
	}
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair}, nil
}

// SignInWithGoogle verifies a Google ID token and signs the matching user in,
// linking an existing verified email or creating the profile on first use.
func (s *Service) SignInWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.offline() {
		return nil, ErrServiceOffline
	}
	if s.Identity == nil {
		return nil, ErrGoogleUnavailable
	}
	id, err := s.Identity.Verify(ctx, idToken)
	if err != nil {
		s.Logger.WithError(err).Warn("google token rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	u, created, err := s.findOrCreateGoogleUser(ctx, id)
	if err != nil {
		return nil, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair, Created: created}, nil
}

func (s *Service) findOrCreateGoogleUser(ctx context.Context, id *helpers.GoogleIdentity) (*entity.User, bool, error) {
	u, err := s.Repo.GetByGoogleSub(ctx, id.Subject)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	email := normalizeEmail(id.Email)
	u, err = s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !id.EmailVerified {
			return nil, false, ErrEmailInUse
		}
		u.GoogleSub = id.Subject
		if u.AvatarURL == "" {
			u.AvatarURL = id.Picture
		}
		if err := s.Repo.Update(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicateGoogleSub) {
				return s.boundGoogleUser(ctx, id.Subject)
			}
			return nil, false, err
		}
		s.Logger.WithField("user_id", u.ID).Info("google sign-in linked")
		s.enqueueEmail(ctx, u, tpl.GoogleLinked)
		return u, false, nil
	case errors.Is(err, repo.ErrNotFound):
	default:
		return nil, false, err
	}

	u = &entity.User{
		Email:     email,
		Name:      entity.DefaultDisplayName("", id.Name, email),
		AvatarURL: id.Picture,
		Provider:  entity.ProviderGoogle,
		GoogleSub: id.Subject,
		Favorites: []string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateGoogleSub) {
			return s.boundGoogleUser(ctx, id.Subject)
		}
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, false, ErrEmailInUse
		}
		return nil, false, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered via google")
	s.enqueueEmail(ctx, u, tpl.Welcome)
	return u, true, nil
}

// boundGoogleUser re-reads the profile a concurrent sign-in bound to sub.
func (s *Service) boundGoogleUser(ctx context.Context, sub string) (*entity.User, bool, error) {
	u, err := s.Repo.GetByGoogleSub(ctx, sub)
	if err != nil {
		return nil, false, err
	}
	return u, false, nil
}

func (s *Service) enqueueEmail(ctx context.Context, u *entity.User, template string) {
	if s.Mail == nil || !s.MailCfg.Enabled {
		return
	}
	data := tpl.WelcomeData{
		Name:         u.Name,
		Email:        u.Email,
		Provider:     u.Provider,
		CompanyName:  s.MailCfg.CompanyName,
		DashboardURL: s.MailCfg.DashboardURL,
		SupportURL:   s.MailCfg.SupportURL,
	}
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data.ToMap()}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue email")
	}
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.SessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh validates the refresh token against the live session and rotates both.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, SessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the server-side session so outstanding tokens stop working.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil || userID == "" {
		return nil
	}
	return s.Redis.Del(ctx, SessionKey(userID)).Err()
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

// UpdateProfile changes the display fields and mirrors them into the session hash.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	if s.offline() {
		return nil, ErrServiceOffline
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.touchSession(ctx, u)
	return u, nil
}

// UploadAvatar stores the image and points the profile at it.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.Avatars == nil {
		return "", ErrAvatarStorageUnavailable
	}
	if s.offline() {
		return "", ErrServiceOffline
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	objectPath := helpers.AvatarObjectPath(userID, uuid.NewString(), filename)
	url, err := s.Avatars.Put(ctx, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.touchSession(ctx, u)
	return url, nil
}

func (s *Service) touchSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := SessionKey(u.ID)
	// only refresh live sessions; keep their remaining TTL
	ttl, err := s.Redis.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, pErr := pipe.Exec(ctx); pErr != nil {
		s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
	}
}
