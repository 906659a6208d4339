package application

import "errors"

var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserNotFound             = errors.New("user not found")
	ErrWrongPassword            = errors.New("wrong password")
	ErrEmailInUse               = errors.New("email already in use")
	ErrGoogleUnavailable        = errors.New("google sign-in not configured")
	ErrAvatarStorageUnavailable = errors.New("avatar storage not configured")

	// ErrServiceOffline rejects account operations while a backing store is unreachable.
	ErrServiceOffline = errors.New("service offline")
	// ErrFavoritesOffline rejects favorite writes while the document store is unreachable.
	ErrFavoritesOffline = errors.New("offline: favorites not saved")

	ErrCoinNotFound       = errors.New("coin not found")
	ErrPriceIndexDown     = errors.New("price index unavailable")
	ErrIncompleteCoinData = errors.New("failed to load complete coin data")
)
