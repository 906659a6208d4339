package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/internal/application"
	"github.com/oksasatya/cryptopal/internal/domain/entity"
	"github.com/oksasatya/cryptopal/internal/interface/middleware"
	"github.com/oksasatya/cryptopal/pkg/helpers"
	"github.com/oksasatya/cryptopal/pkg/response"
	"github.com/oksasatya/cryptopal/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.SessionCookies
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewSessionCookies(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"omitempty,displayname"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type updateProfileRequest struct {
	Name      string `json:"name" binding:"omitempty,displayname"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

func profileView(u *entity.User) gin.H {
	favorites := u.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"provider":   u.Provider,
		"favorites":  favorites,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func (h *UserHandler) signedIn(c *gin.Context, status int, res *application.AuthResult, msg string) {
	pair := res.Tokens
	h.Cookies.Set(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, status, gin.H{"user": profileView(res.User), "created": res.Created}, msg,
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.signedIn(c, http.StatusCreated, res, "registration successful")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusUnauthorized, MsgUserNotFound, nil)
			return
		}
		fail(c, h.Logger, err)
		return
	}
	h.signedIn(c, http.StatusOK, res, "login successful")
}

func (h *UserHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.SignInWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	h.signedIn(c, status, res, "login successful")
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.Cookies.Clear(c)
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.Set(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed",
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil && h.Logger != nil {
		h.Logger.WithError(err).Warn("session delete failed")
	}
	h.Cookies.Clear(c)
	response.OK[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, profileView(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserID),
		application.UpdateProfileInput{Name: req.Name, AvatarURL: req.AvatarURL})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, profileView(u), "profile updated", nil)
}

// UploadAvatar accepts a multipart "avatar" image up to 5 MiB.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+1<<10)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, "avatar must be 5MB or smaller", nil)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Fail(c, http.StatusUnsupportedMediaType, "avatar must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "cannot read avatar", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxUserID), f, fh.Filename, contentType)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}
