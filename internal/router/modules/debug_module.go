package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cryptopal/internal/container"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func publish(name string, fn func() any) {
	if expvar.Get(name) == nil {
		expvar.Publish(name, expvar.Func(fn))
	}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publish("connectivity", func() any {
		if mon := container.GetMonitor(); mon != nil {
			return mon.Status()
		}
		return nil
	})
	publish("coingecko_breaker", func() any {
		if cg := container.GetCoinGecko(); cg != nil {
			return cg.Breaker().State().String()
		}
		return nil
	})
	publish("market_feed_subscribers", func() any {
		feed := container.GetMarketFeed()
		if feed == nil {
			return nil
		}
		out := map[string]int{}
		for _, cur := range []string{"usd", "eur", "inr"} {
			out[cur] = feed.Subscribers(cur)
		}
		return out
	})

	// public, rate-limited per IP; private addresses bypass
	rl := middleware.RateLimit(container.RedisCmd(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
