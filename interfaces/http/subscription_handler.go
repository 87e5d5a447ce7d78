package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/interfaces/middleware"
	"vidtube/usecase"
)

type ISubscriptionHandler interface {
	Toggle(ctx *gin.Context)
	Subscribers(ctx *gin.Context)
	SubscribedChannels(ctx *gin.Context)
}

type SubscriptionHandler struct {
	subscriptionUsecase usecase.ISubscriptionUsecase
}

func NewSubscriptionHandler(subscriptionUsecase usecase.ISubscriptionUsecase) ISubscriptionHandler {
	return &SubscriptionHandler{subscriptionUsecase: subscriptionUsecase}
}

func (h *SubscriptionHandler) Toggle(ctx *gin.Context) {
	id, ok := actor(ctx)
	if !ok {
		return
	}
	res, err := h.subscriptionUsecase.Toggle(ctx.Request.Context(), id, trimmed(ctx, "channelId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	message := "Unsubscribed"
	if res.Subscribed {
		message = "Subscribed"
	}
	respond(ctx, http.StatusOK, res, message)
}

func (h *SubscriptionHandler) Subscribers(ctx *gin.Context) {
	page, err := h.subscriptionUsecase.Subscribers(ctx.Request.Context(), trimmed(ctx, "channelId"), middleware.Viewer(ctx), pageRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(ctx *gin.Context) {
	page, err := h.subscriptionUsecase.SubscribedChannels(ctx.Request.Context(), trimmed(ctx, "subscriberId"), pageRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, page, "Subscribed channels fetched successfully")
}
