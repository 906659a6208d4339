package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/cryptopal/pkg/helpers"
	"github.com/oksasatya/cryptopal/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
	CtxSessionID = "sessionID"
)

func sessionKey(userID string) string { return "user:session:" + userID }

// accessToken reads the access cookie, then a Bearer header.
func accessToken(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the access token and requires the Redis session it was
// issued for to still be live. Tokens from a rotated or deleted session are
// rejected. Without a Redis client only the token is checked.
func Auth(rdb redis.Cmdable, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxSessionID, claims.SessionID)
		if rdb == nil {
			c.Next()
			return
		}

		data, err := rdb.HGetAll(c.Request.Context(), sessionKey(claims.UserID)).Result()
		if err != nil || len(data) == 0 {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		if data["sid"] != claims.SessionID {
			response.Abort(c, http.StatusUnauthorized, "session expired", nil)
			return
		}
		c.Set(CtxUserName, data["name"])
		c.Set(CtxUserEmail, data["email"])
		c.Next()
	}
}
