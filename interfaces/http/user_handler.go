package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/infrastructure/upload"
	"vidtube/interfaces/middleware"
	"vidtube/usecase"
)

type IUserHandler interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	Logout(ctx *gin.Context)
	RefreshToken(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	CurrentUser(ctx *gin.Context)
	UpdateAccount(ctx *gin.Context)
	UpdateAvatar(ctx *gin.Context)
	UpdateCoverImage(ctx *gin.Context)
	ChannelProfile(ctx *gin.Context)
	WatchHistory(ctx *gin.Context)
}

// CookieConfig controls the auth cookies set on login and refresh.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
	buffer      IFileBuffer
	cookies     CookieConfig
}

func NewUserHandler(userUsecase usecase.IUserUsecase, buffer IFileBuffer, cookies CookieConfig) IUserHandler {
	return &UserHandler{userUsecase: userUsecase, buffer: buffer, cookies: cookies}
}

func (h *UserHandler) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	files, err := saveFiles(ctx, h.buffer, "avatar", "coverImage")
	if err != nil {
		respondError(ctx, err)
		return
	}
	req.Avatar, req.CoverImage = files["avatar"], files["coverImage"]

	user, err := h.userUsecase.Register(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, user, "User registered successfully")
}

func (h *UserHandler) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	auth, err := h.userUsecase.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	h.setAuthCookies(ctx, auth)
	respond(ctx, http.StatusOK, auth, "User logged in successfully")
}

func (h *UserHandler) Logout(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	if err := h.userUsecase.Logout(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	respond(ctx, http.StatusOK, gin.H{}, "User logged out")
}

// RefreshToken accepts the refresh token from its cookie or the JSON body.
func (h *UserHandler) RefreshToken(ctx *gin.Context) {
	token, _ := ctx.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req dto.RefreshTokenRequest
		_ = ctx.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	auth, err := h.userUsecase.RefreshToken(ctx.Request.Context(), token)
	if err != nil {
		respondError(ctx, err)
		return
	}
	h.setAuthCookies(ctx, auth)
	respond(ctx, http.StatusOK, auth, "Access token refreshed")
}

func (h *UserHandler) ChangePassword(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	if err := h.userUsecase.ChangePassword(ctx.Request.Context(), id, req); err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	user, err := h.userUsecase.CurrentUser(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user, "Current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	user, err := h.userUsecase.UpdateAccount(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(ctx *gin.Context) {
	h.replaceImage(ctx, "avatar", h.userUsecase.UpdateAvatar, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(ctx *gin.Context) {
	h.replaceImage(ctx, "coverImage", h.userUsecase.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdate func(ctx context.Context, actor bson.ObjectID, file *upload.File) (*model.User, error)

func (h *UserHandler) replaceImage(ctx *gin.Context, field string, apply imageUpdate, message string) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	files, err := saveFiles(ctx, h.buffer, field)
	if err != nil {
		respondError(ctx, err)
		return
	}
	user, err := apply(ctx.Request.Context(), id, files[field])
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user, message)
}

func (h *UserHandler) ChannelProfile(ctx *gin.Context) {
	profile, err := h.userUsecase.ChannelProfile(ctx.Request.Context(), trimmed(ctx, "username"), middleware.Viewer(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *UserHandler) WatchHistory(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	history, err := h.userUsecase.WatchHistory(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, history, "Watch history fetched successfully")
}

func (h *UserHandler) setAuthCookies(ctx *gin.Context, auth *dto.AuthResult) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, auth.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, auth.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}
