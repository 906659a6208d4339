package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
	"github.com/oksasatya/cryptopal/pkg/response"
	"github.com/oksasatya/cryptopal/pkg/validation"
)

type FavoritesHandler struct {
	Svc    *application.FavoritesService
	Logger *logrus.Logger
}

func NewFavoritesHandler(svc *application.FavoritesService, logger *logrus.Logger) *FavoritesHandler {
	return &FavoritesHandler{Svc: svc, Logger: logger}
}

type coinURI struct {
	CoinID string `uri:"coinID" binding:"required,coinid"`
}

type currencyQuery struct {
	Currency string `form:"vs_currency" binding:"omitempty,vscurrency"`
}

func bindCoin(c *gin.Context) (string, bool) {
	var uri coinURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid coin id", validation.ToDetails(err))
		return "", false
	}
	return uri.CoinID, true
}

func (h *FavoritesHandler) List(c *gin.Context) {
	ids, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"favorites": ids}, "favorites", nil)
}

// Markets returns the market rows of the user's favorites.
func (h *FavoritesHandler) Markets(c *gin.Context) {
	var q currencyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	snap, err := h.Svc.Markets(c.Request.Context(), c.GetString(middleware.CtxUserID), q.Currency)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, snap, "favorite markets", gin.H{"stale": snap.Stale})
}

func (h *FavoritesHandler) Check(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	fav := h.Svc.IsFavorite(c.Request.Context(), c.GetString(middleware.CtxUserID), coinID)
	response.OK(c, http.StatusOK, gin.H{"coin_id": coinID, "favorite": fav}, "favorite status", nil)
}

func (h *FavoritesHandler) Add(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	changed, err := h.Svc.Add(c.Request.Context(), c.GetString(middleware.CtxUserID), coinID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"coin_id": coinID, "changed": changed, "favorite": true}, "added to favorites", nil)
}

func (h *FavoritesHandler) Remove(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	changed, err := h.Svc.Remove(c.Request.Context(), c.GetString(middleware.CtxUserID), coinID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"coin_id": coinID, "changed": changed, "favorite": false}, "removed from favorites", nil)
}

func (h *FavoritesHandler) Toggle(c *gin.Context) {
	coinID, ok := bindCoin(c)
	if !ok {
		return
	}
	fav, err := h.Svc.Toggle(c.Request.Context(), c.GetString(middleware.CtxUserID), coinID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	msg := "removed from favorites"
	if fav {
		msg = "added to favorites"
	}
	response.OK(c, http.StatusOK, gin.H{"coin_id": coinID, "favorite": fav}, msg, nil)
}
