package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/dto"
	"vidtube/usecase"
)

type IPlaylistHandler interface {
	Create(ctx *gin.Context)
	ListByUser(ctx *gin.Context)
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	AddVideo(ctx *gin.Context)
	RemoveVideo(ctx *gin.Context)
}

type PlaylistHandler struct {
	playlistUsecase usecase.IPlaylistUsecase
}

func NewPlaylistHandler(playlistUsecase usecase.IPlaylistUsecase) IPlaylistHandler {
	return &PlaylistHandler{playlistUsecase: playlistUsecase}
}

func (h *PlaylistHandler) Create(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	playlist, err := h.playlistUsecase.Create(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) ListByUser(ctx *gin.Context) {
	cards, err := h.playlistUsecase.ListByUser(ctx.Request.Context(), trimmed(ctx, "userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, cards, "User playlists fetched successfully")
}

func (h *PlaylistHandler) Get(ctx *gin.Context) {
	detail, err := h.playlistUsecase.Get(ctx.Request.Context(), trimmed(ctx, "playlistId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, detail, "Playlist fetched successfully")
}

func (h *PlaylistHandler) Update(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	playlist, err := h.playlistUsecase.Update(ctx.Request.Context(), id, trimmed(ctx, "playlistId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	if err := h.playlistUsecase.Delete(ctx.Request.Context(), id, trimmed(ctx, "playlistId")); err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{}, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	playlist, err := h.playlistUsecase.AddVideo(ctx.Request.Context(), id, trimmed(ctx, "videoId"), trimmed(ctx, "playlistId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, playlist, "Video added to playlist")
}

func (h *PlaylistHandler) RemoveVideo(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	playlist, err := h.playlistUsecase.RemoveVideo(ctx.Request.Context(), id, trimmed(ctx, "videoId"), trimmed(ctx, "playlistId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, playlist, "Video removed from playlist")
}
