package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/dto"
	"vidtube/interfaces/middleware"
	"vidtube/usecase"
)

type ICommentHandler interface {
	List(ctx *gin.Context)
	Add(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type CommentHandler struct {
	commentUsecase usecase.ICommentUsecase
}

func NewCommentHandler(commentUsecase usecase.ICommentUsecase) ICommentHandler {
	return &CommentHandler{commentUsecase: commentUsecase}
}

func (h *CommentHandler) List(ctx *gin.Context) {
	page, err := h.commentUsecase.List(ctx.Request.Context(), trimmed(ctx, "videoId"), middleware.Viewer(ctx), pageRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Comments fetched successfully")
}

func (h *CommentHandler) Add(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	comment, err := h.commentUsecase.Add(ctx.Request.Context(), id, trimmed(ctx, "videoId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, comment, "Comment added successfully")
}

func (h *CommentHandler) Update(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, bindError(err))
		return
	}
	comment, err := h.commentUsecase.Update(ctx.Request.Context(), id, trimmed(ctx, "commentId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, comment, "Comment updated successfully")
}

func (h *CommentHandler) Delete(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	if err := h.commentUsecase.Delete(ctx.Request.Context(), id, trimmed(ctx, "commentId")); err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{}, "Comment deleted successfully")
}
