package middleware

import (
	"net/http"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/gin-gonic/gin"

	"vidtube/domain/dto"
)

const WriteResource = "vidtube-writes"

// InitRateLimit boots sentinel and installs a flat QPS rule for resource.
func InitRateLimit(resource string, perSecond float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return err
	}
	_, err := flow.LoadRules([]*flow.Rule{{
		Resource:               resource,
		TokenCalculateStrategy: flow.Direct,
		ControlBehavior:        flow.Reject,
		Threshold:              perSecond,
		StatIntervalInMs:       1000,
	}})
	return err
}

// RateLimit guards the handler chain with a sentinel entry. Blocked
// requests get a 429 envelope.
func RateLimit(resource string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		e, blocked := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if blocked != nil {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(http.StatusTooManyRequests, "Too many requests", nil))
			return
		}
		defer e.Exit()
		ctx.Next()
	}
}

// WritesOnly applies next to mutating methods and skips reads.
func WritesOnly(next gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			ctx.Next()
		default:
			next(ctx)
		}
	}
}
