package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/core/services"
	"vidtube/internal/infrastructure/middleware"
	apperrors "vidtube/pkg/errors"
)

// CookieSettings controls how the auth cookies are issued.
type CookieSettings struct {
	Domain        string
	Secure        bool
	AccessMaxAge  int
	RefreshMaxAge int
}

type UserHandler struct {
	users   services.UserService
	cookies CookieSettings
}

func NewUserHandler(users services.UserService, cookies CookieSettings) *UserHandler {
	return &UserHandler{users: users, cookies: cookies}
}

func (h *UserHandler) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, h.cookies.AccessMaxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie("refreshToken", pair.RefreshToken, h.cookies.RefreshMaxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie("refreshToken", "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *UserHandler) Register(c *gin.Context) {
	avatarPath, err := saveUploadedFile(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}
	coverPath, err := saveUploadedFile(c, "coverImage")
	if err != nil {
		fail(c, err)
		return
	}

	input := services.RegisterInput{
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		FullName:       c.PostForm("fullname"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	}

	user, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "user registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	user, pair, err := h.users.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.users.Logout(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	h.clearAuthCookies(c)
	respond(c, http.StatusOK, nil, "logged out successfully")
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie("refreshToken")
	if token == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.users.RefreshTokens(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "tokens refreshed successfully")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}
	respond(c, http.StatusOK, user, "current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		FullName string `json:"fullname"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "account updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	path, err := saveUploadedFile(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.UpdateAvatar(c.Request.Context(), userID, path)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	path, err := saveUploadedFile(c, "coverImage")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.UpdateCoverImage(c.Request.Context(), userID, path)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "cover image updated successfully")
}

func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.users.GetChannelProfile(c.Request.Context(), c.Param("username"), userID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	history, err := h.users.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, history, "watch history fetched successfully")
}
