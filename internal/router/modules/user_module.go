package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cryptopal/internal/container"
	handlers "github.com/oksasatya/cryptopal/internal/interface/http"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /register, /login, /login/google, /refresh
// Protected: POST /logout, GET|PUT /profile, PUT /profile/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.RedisCmd()
	credLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", credLimiter, m.Handler.Register)
	rg.POST("/login", credLimiter, m.Handler.Login)
	rg.POST("/login/google", credLimiter, m.Handler.GoogleLogin)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/profile/avatar", middleware.RateLimit(rdb, 10, time.Hour, middleware.KeyByUserID(), nil), m.Handler.UploadAvatar)
	}
}
