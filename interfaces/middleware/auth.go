package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/repository"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/utils"
)

const (
	UserIDKey          = "user_id"
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Auth rejects requests without a valid access token for an existing user.
func Auth(secret string, users repository.IUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := authenticate(ctx, secret, users)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(http.StatusUnauthorized, unauthorizedMessage(err), nil))
			return
		}
		ctx.Set(UserIDKey, id)
		ctx.Next()
	}
}

// OptionalAuth resolves the viewer when a valid token is presented and
// otherwise lets the request through as anonymous.
func OptionalAuth(secret string, users repository.IUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if bearer(ctx) != "" {
			if id, err := authenticate(ctx, secret, users); err == nil {
				ctx.Set(UserIDKey, id)
			} else {
				logger.GetLogger().WithField("error", err).Debug("Ignoring invalid token on public route")
			}
		}
		ctx.Next()
	}
}

// Actor returns the authenticated user id set by Auth.
func Actor(ctx *gin.Context) (bson.ObjectID, bool) {
	v, ok := ctx.Get(UserIDKey)
	if !ok {
		return bson.NilObjectID, false
	}
	id, ok := v.(bson.ObjectID)
	return id, ok
}

// Viewer is Actor as a pointer, nil for anonymous requests.
func Viewer(ctx *gin.Context) *bson.ObjectID {
	id, ok := Actor(ctx)
	if !ok {
		return nil
	}
	return &id
}

var errNoToken = errors.New("missing access token")

func bearer(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := ctx.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func authenticate(ctx *gin.Context, secret string, users repository.IUser) (bson.ObjectID, error) {
	token := bearer(ctx)
	if token == "" {
		return bson.NilObjectID, errNoToken
	}
	var claims model.UserClaims
	if err := utils.ParseToken(token, secret, &claims); err != nil {
		return bson.NilObjectID, err
	}
	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return bson.NilObjectID, utils.ErrInvalidToken
	}
	if _, err := users.GetByID(ctx.Request.Context(), id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.GetLogger().WithField("error", err).Error("Could not load token subject")
		}
		return bson.NilObjectID, utils.ErrInvalidToken
	}
	return id, nil
}

func unauthorizedMessage(err error) string {
	if errors.Is(err, errNoToken) {
		return "Unauthorized request"
	}
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "Malformed access token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "Access token expired"
		}
	}
	return "Invalid access token"
}
