package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "cryptopal"

// ErrTokenKind is returned when a refresh token is presented as an access
// token or the other way round.
var ErrTokenKind = errors.New("jwt: wrong token kind")

type tokenKind string

const (
	accessKind  tokenKind = "access"
	refreshKind tokenKind = "refresh"
)

// JWTManager signs and checks the HS256 access/refresh pair. Each kind has
// its own secret and lifetime.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	now           func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Claims carries the user id and the session id the token was issued for.
type Claims struct {
	UserID    string    `json:"uid"`
	SessionID string    `json:"sid"`
	Kind      tokenKind `json:"typ"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(userID, sessionID string) (string, time.Time, error) {
	return m.sign(accessKind, userID, sessionID)
}

func (m *JWTManager) GenerateRefreshToken(userID, sessionID string) (string, time.Time, error) {
	return m.sign(refreshKind, userID, sessionID)
}

func (m *JWTManager) ParseAccessToken(token string) (*Claims, error) {
	return m.parse(accessKind, token)
}

func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.parse(refreshKind, token)
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *JWTManager) keyFor(kind tokenKind) ([]byte, time.Duration) {
	if kind == refreshKind {
		return m.RefreshSecret, m.RefreshTTL
	}
	return m.AccessSecret, m.AccessTTL
}

func (m *JWTManager) sign(kind tokenKind, userID, sessionID string) (string, time.Time, error) {
	secret, ttl := m.keyFor(kind)
	now := m.clock()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

func (m *JWTManager) parse(kind tokenKind, token string) (*Claims, error) {
	secret, _ := m.keyFor(kind)
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrTokenKind
	}
	return claims, nil
}
