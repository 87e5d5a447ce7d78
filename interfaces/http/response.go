package http

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/pagination"
	"vidtube/infrastructure/logger"
	"vidtube/interfaces/middleware"
)

func respond(ctx *gin.Context, status int, data any, message string) {
	ctx.JSON(status, dto.NewResponse(status, data, message))
}

// respondError renders err through the error envelope. Causes are logged,
// never echoed to the client.
func respondError(ctx *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.WithRequestID(ctx.GetString(middleware.RequestIDKey)).WithFields(map[string]interface{}{
			"route": ctx.FullPath(),
			"kind":  appErr.Kind.String(),
			"error": err,
		}).Error("Request failed")
	}
	ctx.AbortWithStatusJSON(status, dto.NewErrorResponse(status, appErr.Message, appErr.Details))
}

// bindError turns a binding failure into an input error with one detail
// per rejected field.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
		return apperror.Input("invalid request").WithDetails(details...)
	}
	return apperror.Wrap(apperror.KindInput, "malformed request body", err)
}

func fieldMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	default:
		return name + " is invalid"
	}
}

func lowerFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToLower(r)) + s[i+len(string(r)):]
	}
	return s
}

// actor reads the authenticated user; a route wired without Auth answers 401.
func actor(ctx *gin.Context) (bson.ObjectID, bool) {
	id, ok := middleware.Actor(ctx)
	if !ok {
		respondError(ctx, apperror.Auth("Unauthorized request"))
	}
	return id, ok
}

func pageRequest(ctx *gin.Context) pagination.Request {
	return pagination.Parse(ctx.Query("page"), ctx.Query("limit"))
}

func trimmed(ctx *gin.Context, param string) string {
	return strings.TrimSpace(ctx.Param(param))
}
