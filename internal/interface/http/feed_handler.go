package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
	"github.com/oksasatya/cryptopal/pkg/helpers"
	"github.com/oksasatya/cryptopal/pkg/response"
	"github.com/oksasatya/cryptopal/pkg/validation"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPongWait     = 60 * time.Second
	feedPingInterval = 50 * time.Second
)

// FeedHandler streams market snapshots over a websocket.
type FeedHandler struct {
	Feed     *application.MarketFeed
	Markets  application.MarketSource
	Logger   *logrus.Logger
	Upgrader websocket.Upgrader
}

// NewFeedHandler accepts upgrades from the given origins; an empty list
// accepts same-host requests only.
func NewFeedHandler(feed *application.MarketFeed, markets application.MarketSource, logger *logrus.Logger, origins []string) *FeedHandler {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	h := &FeedHandler{Feed: feed, Markets: markets, Logger: logger}
	h.Upgrader = websocket.Upgrader{
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      originChecker(origins),
	}
	return h
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

type feedMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Stream sends the current listing, then every snapshot the feed publishes
// for vs_currency until the client goes away.
func (h *FeedHandler) Stream(c *gin.Context) {
	var q currencyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		return
	}
	defer func() { _ = conn.Close() }()

	log := h.Logger.WithFields(logrus.Fields{"user_id": c.GetString(middleware.CtxUserID), "currency": q.Currency})
	updates, cancel := h.Feed.Subscribe(q.Currency)
	defer cancel()

	ctx := c.Request.Context()
	if h.Markets != nil {
		if snap, err := h.Markets.Markets(ctx, q.Currency); err == nil {
			if err := h.write(conn, feedMessage{Type: "markets", Data: snap}); err != nil {
				return
			}
		} else {
			_ = h.write(conn, feedMessage{Type: "error", Data: "Market data is currently unavailable"})
		}
	}

	// reader: handles pongs and detects close
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(feedPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingInterval)
	defer ping.Stop()
	for {
		select {
		case <-done:
			log.Debug("feed client disconnected")
			return
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, feedMessage{Type: "markets", Data: snap}); err != nil {
				log.WithError(err).Debug("feed write failed")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *FeedHandler) write(conn *websocket.Conn, msg feedMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	return conn.WriteJSON(msg)
}
