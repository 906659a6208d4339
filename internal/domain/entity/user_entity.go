package entity

import (
	"strings"
	"time"
)

// Auth providers a user record can originate from.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field; accounts created
// through Google sign-in have an empty Password and a GoogleSub.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	AvatarURL string
	Provider  string
	GoogleSub string
	Favorites []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the account can sign in with email/password.
func (u *User) HasPassword() bool {
	return u != nil && u.Password != ""
}

// IsFavorite reports whether coinID is in the user's favorites.
func (u *User) IsFavorite(coinID string) bool {
	if u == nil {
		return false
	}
	for _, id := range u.Favorites {
		if id == coinID {
			return true
		}
	}
	return false
}

// DefaultDisplayName picks the profile name: the explicit name, then the
// provider's display name, then the local part of the email, then "User".
func DefaultDisplayName(explicit, providerName, email string) string {
	if n := strings.TrimSpace(explicit); n != "" {
		return n
	}
	if n := strings.TrimSpace(providerName); n != "" {
		return n
	}
	if local, _, _ := strings.Cut(email, "@"); strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}
	return "User"
}
