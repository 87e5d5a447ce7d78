package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/dto"
	"vidtube/interfaces/middleware"
	"vidtube/usecase"
)

type IVideoHandler interface {
	List(ctx *gin.Context)
	Publish(ctx *gin.Context)
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	TogglePublish(ctx *gin.Context)
}

type VideoHandler struct {
	videoUsecase usecase.IVideoUsecase
	buffer       IFileBuffer
}

func NewVideoHandler(videoUsecase usecase.IVideoUsecase, buffer IFileBuffer) IVideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase, buffer: buffer}
}

// List handles GET /videos?query=&userId=&sortBy=&sortType=&page=&limit=
func (h *VideoHandler) List(ctx *gin.Context) {
	var query dto.VideoListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	page, err := h.videoUsecase.List(ctx.Request.Context(), query)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Videos fetched successfully")
}

// Publish handles the multipart POST /videos with videoFile and thumbnail parts.
func (h *VideoHandler) Publish(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.PublishVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	files, err := saveFiles(ctx, h.buffer, "videoFile", "thumbnail")
	if err != nil {
		respondError(ctx, err)
		return
	}
	req.VideoFile, req.Thumbnail = files["videoFile"], files["thumbnail"]

	video, err := h.videoUsecase.Publish(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) Get(ctx *gin.Context) {
	detail, err := h.videoUsecase.Get(ctx.Request.Context(), trimmed(ctx, "videoId"), middleware.Viewer(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, detail, "Video fetched successfully")
}

func (h *VideoHandler) Update(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.UpdateVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	files, err := saveFiles(ctx, h.buffer, "thumbnail")
	if err != nil {
		respondError(ctx, err)
		return
	}
	req.Thumbnail = files["thumbnail"]

	video, err := h.videoUsecase.Update(ctx.Request.Context(), id, trimmed(ctx, "videoId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) Delete(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	if err := h.videoUsecase.Delete(ctx.Request.Context(), id, trimmed(ctx, "videoId")); err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{}, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublish(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	status, err := h.videoUsecase.TogglePublish(ctx.Request.Context(), id, trimmed(ctx, "videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, status, "Video publish status toggled")
}
