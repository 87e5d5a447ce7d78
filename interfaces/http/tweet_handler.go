package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/dto"
	"vidtube/interfaces/middleware"
	"vidtube/usecase"
)

type ITweetHandler interface {
	Create(ctx *gin.Context)
	ListByUser(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type TweetHandler struct {
	tweetUsecase usecase.ITweetUsecase
}

func NewTweetHandler(tweetUsecase usecase.ITweetUsecase) ITweetHandler {
	return &TweetHandler{tweetUsecase: tweetUsecase}
}

func (h *TweetHandler) Create(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	tweet, err := h.tweetUsecase.Create(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) ListByUser(ctx *gin.Context) {
	page, err := h.tweetUsecase.ListByUser(ctx.Request.Context(), trimmed(ctx, "userId"), middleware.Viewer(ctx), pageRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Tweets fetched successfully")
}

func (h *TweetHandler) Update(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	tweet, err := h.tweetUsecase.Update(ctx.Request.Context(), id, trimmed(ctx, "tweetId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) Delete(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	if err := h.tweetUsecase.Delete(ctx.Request.Context(), id, trimmed(ctx, "tweetId")); err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}
