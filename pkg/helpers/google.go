package helpers

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrGoogleTokenInvalid = errors.New("invalid google id token")

// GoogleIdentity is the subset of Google ID token claims used for sign-in.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleVerifier validates Google ID tokens issued for ClientID.
type GoogleVerifier struct {
	ClientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{ClientID: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*GoogleIdentity, error) {
	if v.ClientID == "" {
		return nil, errors.New("google sign-in not configured")
	}
	payload, err := v.validate(ctx, rawToken, v.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleTokenInvalid, err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*GoogleIdentity, error) {
	id := &GoogleIdentity{Subject: p.Subject}
	id.Email, _ = p.Claims["email"].(string)
	id.EmailVerified, _ = p.Claims["email_verified"].(bool)
	id.Name, _ = p.Claims["name"].(string)
	id.Picture, _ = p.Claims["picture"].(string)
	if id.Subject == "" || id.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrGoogleTokenInvalid)
	}
	return id, nil
}
