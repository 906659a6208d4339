package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/pkg/helpers"
	"github.com/oksasatya/cryptopal/pkg/response"
)

// User-facing messages shown by the dashboard.
const (
	MsgOffline          = "You are offline. Please check your connection and try again."
	MsgFavoritesOffline = "You are offline. Changes will not be saved."
	MsgUserNotFound     = "User not found"
	MsgWrongPassword    = "Incorrect password"
	MsgInvalidLogin     = "Invalid email or password"
)

// statusFor maps application errors to an HTTP status and message.
// Unknown errors are 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrServiceOffline):
		return http.StatusServiceUnavailable, MsgOffline
	case errors.Is(err, application.ErrFavoritesOffline):
		return http.StatusServiceUnavailable, MsgFavoritesOffline
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, application.ErrWrongPassword):
		return http.StatusUnauthorized, MsgWrongPassword
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidLogin
	case errors.Is(err, application.ErrEmailInUse):
		return http.StatusConflict, "Email already in use"
	case errors.Is(err, application.ErrGoogleUnavailable):
		return http.StatusNotImplemented, "Google sign-in is not available"
	case errors.Is(err, application.ErrAvatarStorageUnavailable):
		return http.StatusNotImplemented, "Avatar upload is not available"
	case errors.Is(err, application.ErrCoinNotFound):
		return http.StatusNotFound, "Coin not found"
	case errors.Is(err, application.ErrPriceIndexDown):
		return http.StatusBadGateway, "Market data is currently unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// fail writes the mapped error envelope, logging unexpected errors.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(response.RequestIDKey),
			"path":       c.FullPath(),
		})
	}
	response.Fail(c, status, msg, nil)
}
