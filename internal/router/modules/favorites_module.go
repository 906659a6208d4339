package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cryptopal/internal/container"
	handlers "github.com/oksasatya/cryptopal/internal/interface/http"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

type FavoritesModule struct {
	Handler *handlers.FavoritesHandler
	JWT     *helpers.JWTManager
}

func NewFavoritesModule(h *handlers.FavoritesHandler, jwt *helpers.JWTManager) *FavoritesModule {
	return &FavoritesModule{Handler: h, JWT: jwt}
}

func (m *FavoritesModule) Register(rg *gin.RouterGroup) {
	rdb := container.RedisCmd()
	fav := rg.Group("/favorites")
	fav.Use(middleware.Auth(rdb, m.JWT))
	fav.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		fav.GET("", m.Handler.List)
		fav.GET("/markets", m.Handler.Markets)
		fav.GET("/:coinID", m.Handler.Check)
		fav.POST("/:coinID", m.Handler.Add)
		fav.DELETE("/:coinID", m.Handler.Remove)
		fav.POST("/:coinID/toggle", m.Handler.Toggle)
	}
}
