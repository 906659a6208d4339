package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cryptopal/internal/container"
	handlers "github.com/oksasatya/cryptopal/internal/interface/http"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// MarketModule wires price index routes and the live feed.
type MarketModule struct {
	Handler *handlers.MarketHandler
	Feed    *handlers.FeedHandler
	JWT     *helpers.JWTManager
}

func NewMarketModule(h *handlers.MarketHandler, feed *handlers.FeedHandler, jwt *helpers.JWTManager) *MarketModule {
	return &MarketModule{Handler: h, Feed: feed, JWT: jwt}
}

func (m *MarketModule) Register(rg *gin.RouterGroup) {
	rdb := container.RedisCmd()
	rg.GET("/currencies", m.Handler.Currencies)

	coins := rg.Group("/coins")
	coins.Use(middleware.Auth(rdb, m.JWT))
	coins.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		coins.GET("/markets", m.Handler.Markets)
		coins.GET("/search", m.Handler.Search)
		coins.GET("/:coinID", m.Handler.Coin)
		coins.GET("/:coinID/history", m.Handler.History)
		coins.GET("/:coinID/overview", m.Handler.Overview)
	}

	if m.Feed != nil {
		rg.GET("/ws/markets",
			middleware.Auth(rdb, m.JWT),
			middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByUserID(), nil),
			m.Feed.Stream,
		)
	}
}
