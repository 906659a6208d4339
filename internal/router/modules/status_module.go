package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/cryptopal/internal/interface/http"
)

type StatusModule struct {
	Handler *handlers.StatusHandler
}

func NewStatusModule(h *handlers.StatusHandler) *StatusModule {
	return &StatusModule{Handler: h}
}

func (m *StatusModule) Register(rg *gin.RouterGroup) {
	rg.GET("/status", m.Handler.Status)
}
