package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	// RefreshCookiePath scopes the refresh token to the endpoints that consume it.
	RefreshCookiePath = "/api"
)

// SessionCookies writes the HttpOnly access/refresh cookie pair issued at sign-in.
type SessionCookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewSessionCookies(domain string, secure bool) *SessionCookies {
	mode := http.SameSiteLaxMode
	if secure {
		// the dashboard may live on another origin when served over TLS
		mode = http.SameSiteNoneMode
	}
	return &SessionCookies{Domain: domain, Secure: secure, SameSite: mode}
}

// Set stores both tokens; each cookie lives exactly as long as its token.
func (s *SessionCookies) Set(c *gin.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	s.write(c, AccessCookie, "/", access, secondsUntil(accessExp))
	s.write(c, RefreshCookie, RefreshCookiePath, refresh, secondsUntil(refreshExp))
}

// Clear expires both cookies.
func (s *SessionCookies) Clear(c *gin.Context) {
	s.write(c, AccessCookie, "/", "", -1)
	s.write(c, RefreshCookie, RefreshCookiePath, "", -1)
}

func (s *SessionCookies) write(c *gin.Context, name, path, value string, maxAge int) {
	c.SetSameSite(s.SameSite)
	c.SetCookie(name, value, maxAge, path, s.Domain, s.Secure, true)
}

func secondsUntil(t time.Time) int {
	if d := time.Until(t); d > 0 {
		return int(d / time.Second)
	}
	return 0
}
