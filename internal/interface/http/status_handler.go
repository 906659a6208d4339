package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/pkg/response"
)

type StatusHandler struct {
	Monitor *application.Monitor
}

func NewStatusHandler(m *application.Monitor) *StatusHandler {
	return &StatusHandler{Monitor: m}
}

// Status reports connectivity of the backing services. Offline is not an
// HTTP error; clients read data.offline.
func (h *StatusHandler) Status(c *gin.Context) {
	if h.Monitor == nil {
		response.OK(c, http.StatusOK, application.ConnectivityStatus{}, "status", nil)
		return
	}
	st := h.Monitor.Status()
	msg := "online"
	if st.Offline {
		msg = MsgOffline
	}
	response.OK(c, http.StatusOK, st, msg, nil)
}
