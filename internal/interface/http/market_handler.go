package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/pkg/response"
	"github.com/oksasatya/cryptopal/pkg/validation"
)

type MarketHandler struct {
	Svc    *application.MarketService
	Logger *logrus.Logger
}

func NewMarketHandler(svc *application.MarketService, logger *logrus.Logger) *MarketHandler {
	return &MarketHandler{Svc: svc, Logger: logger}
}

type searchQuery struct {
	Q        string `form:"q" binding:"required,max=100"`
	Currency string `form:"vs_currency" binding:"omitempty,vscurrency"`
	Size     int    `form:"size" binding:"omitempty,min=1,max=10"`
}

type historyQuery struct {
	Currency string `form:"vs_currency" binding:"omitempty,vscurrency"`
	Days     int    `form:"days" binding:"omitempty,min=1,max=365"`
}

func (h *MarketHandler) Currencies(c *gin.Context) {
	response.OK(c, http.StatusOK, h.Svc.Currencies(), "currencies", nil)
}

func (h *MarketHandler) Markets(c *gin.Context) {
	var q currencyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	snap, err := h.Svc.Markets(c.Request.Context(), q.Currency)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, snap, "markets", gin.H{"count": len(snap.Coins), "stale": snap.Stale})
}

func (h *MarketHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	coins, err := h.Svc.Search(c.Request.Context(), q.Q, q.Currency, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, coins, "search results", gin.H{"count": len(coins)})
}

func (h *MarketHandler) Coin(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	var q currencyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	view, err := h.Svc.Coin(c.Request.Context(), coinID, q.Currency)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, view, "coin", nil)
}

func (h *MarketHandler) History(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	hist, err := h.Svc.History(c.Request.Context(), coinID, q.Currency, q.Days)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"history": hist, "chart": hist.ChartRows()}, "price history", nil)
}

// Overview answers 200 with whatever loaded; meta.incomplete flags a partial page.
func (h *MarketHandler) Overview(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	var q currencyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	ov, err := h.Svc.Overview(c.Request.Context(), coinID, q.Currency)
	if errors.Is(err, application.ErrIncompleteCoinData) {
		response.OK(c, http.StatusOK, ov, "Failed to load complete coin data", gin.H{"incomplete": true})
		return
	}
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, ov, "coin overview", gin.H{"incomplete": false})
}
