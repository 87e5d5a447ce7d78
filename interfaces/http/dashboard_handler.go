package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/usecase"
)

type IDashboardHandler interface {
	Stats(ctx *gin.Context)
	Videos(ctx *gin.Context)
}

type DashboardHandler struct {
	dashboardUsecase usecase.IDashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.IDashboardUsecase) IDashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

func (h *DashboardHandler) Stats(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	stats, err := h.dashboardUsecase.Stats(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) Videos(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	page, err := h.dashboardUsecase.Videos(ctx.Request.Context(), id, pageRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Channel videos fetched successfully")
}
