package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/dto"
	"vidtube/usecase"
)

type IHealthHandler interface {
	Check(ctx *gin.Context)
}

type HealthHandler struct {
	healthUsecase usecase.IHealthUsecase
}

func NewHealthHandler(healthUsecase usecase.IHealthUsecase) IHealthHandler {
	return &HealthHandler{healthUsecase: healthUsecase}
}

// Check answers 200 when every dependency is up and 503 otherwise.
func (h *HealthHandler) Check(ctx *gin.Context) {
	report := h.healthUsecase.Check(ctx.Request.Context())
	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, dto.NewResponse(status, report, report.Status))
}
