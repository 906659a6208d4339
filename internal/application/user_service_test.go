package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/pkg/helpers"
	"github.com/oksasatya/cryptopal/pkg/mailer"
	tpl "github.com/oksasatya/cryptopal/pkg/mailer/templates"
)

func newTestService(r *memRepo) *Service {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	return NewService(r, jwt, nil, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	s := newTestService(r)

	res, err := s.Register(ctx, " Alice@Example.com ", "secret1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !res.Created || res.User.Email != "alice@example.com" || res.User.Name != "alice" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatal("tokens not issued")
	}

	if _, err := s.Register(ctx, "alice@example.com", "other12", "A"); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("duplicate register err = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"ok", "alice@example.com", "secret1", nil},
		{"unknown user", "bob@example.com", "secret1", ErrUserNotFound},
		{"wrong password", "alice@example.com", "nope", ErrWrongPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Login err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginFederatedOnlyAccount(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	_ = r.Create(ctx, &entity.User{Email: "g@example.com", Provider: entity.ProviderGoogle, GoogleSub: "sub-1"})
	s := newTestService(r)
	if _, err := s.Login(ctx, "g@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestOfflineRejectsAccountOperations(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemRepo())
	s.Net = offlineFlag(true)
	s.Identity = fakeVerifier{}

	if _, err := s.Register(ctx, "a@example.com", "secret1", ""); !errors.Is(err, ErrServiceOffline) {
		t.Errorf("Register err = %v", err)
	}
	if _, err := s.Login(ctx, "a@example.com", "secret1"); !errors.Is(err, ErrServiceOffline) {
		t.Errorf("Login err = %v", err)
	}
	if _, err := s.SignInWithGoogle(ctx, "tok"); !errors.Is(err, ErrServiceOffline) {
		t.Errorf("SignInWithGoogle err = %v", err)
	}
}

func TestSignInWithGoogle(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	s := newTestService(r)

	if _, err := s.SignInWithGoogle(ctx, "tok"); !errors.Is(err, ErrGoogleUnavailable) {
		t.Fatalf("no verifier err = %v", err)
	}

	s.Identity = fakeVerifier{err: helpers.ErrGoogleTokenInvalid}
	if _, err := s.SignInWithGoogle(ctx, "tok"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad token err = %v", err)
	}

	s.Identity = fakeVerifier{id: &helpers.GoogleIdentity{Subject: "sub-1", Email: "G@Example.com", EmailVerified: true, Name: "Gina"}}
	first, err := s.SignInWithGoogle(ctx, "tok")
	if err != nil {
		t.Fatalf("first sign-in: %v", err)
	}
	if !first.Created || first.User.Name != "Gina" || first.User.Provider != entity.ProviderGoogle {
		t.Fatalf("unexpected first sign-in: %+v", first.User)
	}
	second, err := s.SignInWithGoogle(ctx, "tok")
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if second.Created || second.User.ID != first.User.ID {
		t.Fatalf("second sign-in should reuse the profile")
	}
}

func TestSignInWithGoogleLinksVerifiedEmail(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	s := newTestService(r)
	pub := &fakePublisher{}
	s.Mail = pub
	s.MailCfg = MailSettings{Enabled: true, CompanyName: "CryptoPal"}

	reg, err := s.Register(ctx, "p@example.com", "secret1", "Pat")
	if err != nil {
		t.Fatal(err)
	}

	s.Identity = fakeVerifier{id: &helpers.GoogleIdentity{Subject: "sub-9", Email: "p@example.com", EmailVerified: false}}
	if _, err := s.SignInWithGoogle(ctx, "tok"); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("unverified link err = %v", err)
	}

	s.Identity = fakeVerifier{id: &helpers.GoogleIdentity{Subject: "sub-9", Email: "p@example.com", EmailVerified: true}}
	res, err := s.SignInWithGoogle(ctx, "tok")
	if err != nil {
		t.Fatal(err)
	}
	if res.Created || res.User.ID != reg.User.ID || res.User.GoogleSub != "sub-9" {
		t.Fatalf("expected linked account, got %+v", res.User)
	}

	if len(pub.jobs) != 2 {
		t.Fatalf("jobs = %d, want welcome + linked", len(pub.jobs))
	}
	if job := pub.jobs[1].(mailer.EmailJob); job.Template != tpl.GoogleLinked {
		t.Errorf("second job template = %q", job.Template)
	}
}

func TestSignInWithGoogleConcurrentBind(t *testing.T) {
	ctx := context.Background()
	mem := newMemRepo()
	existing := &entity.User{Email: "first@example.com", Name: "First", Provider: entity.ProviderGoogle, GoogleSub: "sub-r"}
	if err := mem.Create(ctx, existing); err != nil {
		t.Fatal(err)
	}
	r := &staleSubRepo{memRepo: mem}
	s := NewService(r, helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour), nil, nil)
	s.Identity = fakeVerifier{id: &helpers.GoogleIdentity{Subject: "sub-r", Email: "second@example.com", EmailVerified: true}}

	res, err := s.SignInWithGoogle(ctx, "tok")
	if err != nil {
		t.Fatalf("SignInWithGoogle: %v", err)
	}
	if res.Created || res.User.ID != existing.ID {
		t.Fatalf("expected the already bound profile, got %+v (created=%v)", res.User, res.Created)
	}
}

func TestRefreshWithoutSessionStore(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemRepo())
	res, err := s.Register(ctx, "r@example.com", "secret1", "R")
	if err != nil {
		t.Fatal(err)
	}
	_, uid, err := s.Refresh(ctx, res.Tokens.RefreshToken)
	if err != nil || uid != res.User.ID {
		t.Fatalf("Refresh = %q, %v", uid, err)
	}
	if _, _, err := s.Refresh(ctx, res.Tokens.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("access token as refresh err = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemRepo())
	res, _ := s.Register(ctx, "u@example.com", "secret1", "U")

	u, err := s.UpdateProfile(ctx, res.User.ID, UpdateProfileInput{Name: "  New Name  "})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "New Name" {
		t.Errorf("Name = %q", u.Name)
	}
	if _, err := s.UpdateProfile(ctx, "missing", UpdateProfileInput{Name: "x"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	r := newMemRepo()
	s := newTestService(r)
	res, err := s.Register(ctx, "pic@example.com", "secret1", "Pic")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.UploadAvatar(ctx, res.User.ID, strings.NewReader("img"), "a.png", "image/png"); !errors.Is(err, ErrAvatarStorageUnavailable) {
		t.Fatalf("without store err = %v", err)
	}

	store := &memAvatars{}
	s.Avatars = store
	url, err := s.UploadAvatar(ctx, res.User.ID, strings.NewReader("img"), "Me.PNG", "image/png")
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if len(store.paths) != 1 || !strings.HasPrefix(store.paths[0], "avatars/"+res.User.ID+"/") || !strings.HasSuffix(store.paths[0], ".png") {
		t.Fatalf("paths = %v", store.paths)
	}
	u, _ := s.GetProfile(ctx, res.User.ID)
	if u.AvatarURL != url {
		t.Errorf("AvatarURL = %q, want %q", u.AvatarURL, url)
	}
}
