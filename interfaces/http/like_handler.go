package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/model"
	"vidtube/usecase"
)

type ILikeHandler interface {
	ToggleVideoLike(ctx *gin.Context)
	ToggleCommentLike(ctx *gin.Context)
	ToggleTweetLike(ctx *gin.Context)
	LikedVideos(ctx *gin.Context)
}

type LikeHandler struct {
	likeUsecase usecase.ILikeUsecase
}

func NewLikeHandler(likeUsecase usecase.ILikeUsecase) ILikeHandler {
	return &LikeHandler{likeUsecase: likeUsecase}
}

func (h *LikeHandler) ToggleVideoLike(ctx *gin.Context) {
	h.toggle(ctx, model.TargetVideo, "videoId")
}

func (h *LikeHandler) ToggleCommentLike(ctx *gin.Context) {
	h.toggle(ctx, model.TargetComment, "commentId")
}

func (h *LikeHandler) ToggleTweetLike(ctx *gin.Context) {
	h.toggle(ctx, model.TargetTweet, "tweetId")
}

func (h *LikeHandler) toggle(ctx *gin.Context, kind model.TargetKind, param string) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	res, err := h.likeUsecase.Toggle(ctx.Request.Context(), id, kind, trimmed(ctx, param))
	if err != nil {
		respondError(ctx, err)
		return
	}
	message := "Like removed"
	if res.Liked {
		message = "Like added"
	}
	respond(ctx, http.StatusOK, res, message)
}

func (h *LikeHandler) LikedVideos(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	page, err := h.likeUsecase.LikedVideos(ctx.Request.Context(), id, pageRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Liked videos fetched successfully")
}
