package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/infrastructure/upload"
	httpHandler "vidtube/interfaces/http"
	"vidtube/interfaces/middleware"
	"vidtube/usecase"
)

type MockVideoUsecase struct {
	mock.Mock
}

func (m *MockVideoUsecase) List(ctx context.Context, query dto.VideoListQuery) (pagination.Page[dto.VideoCard], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(pagination.Page[dto.VideoCard]), args.Error(1)
}

func (m *MockVideoUsecase) Publish(ctx context.Context, actor bson.ObjectID, req dto.PublishVideoRequest) (*model.Video, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoUsecase) Get(ctx context.Context, videoID string, viewer *bson.ObjectID) (*dto.VideoDetail, error) {
	args := m.Called(ctx, videoID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoDetail), args.Error(1)
}

func (m *MockVideoUsecase) Update(ctx context.Context, actor bson.ObjectID, videoID string, req dto.UpdateVideoRequest) (*model.Video, error) {
	args := m.Called(ctx, actor, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoUsecase) Delete(ctx context.Context, actor bson.ObjectID, videoID string) error {
	args := m.Called(ctx, actor, videoID)
	return args.Error(0)
}

func (m *MockVideoUsecase) TogglePublish(ctx context.Context, actor bson.ObjectID, videoID string) (*dto.PublishStatus, error) {
	args := m.Called(ctx, actor, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublishStatus), args.Error(1)
}

type MockHealthUsecase struct {
	mock.Mock
}

func (m *MockHealthUsecase) Check(ctx context.Context) usecase.HealthReport {
	args := m.Called(ctx)
	return args.Get(0).(usecase.HealthReport)
}

// asUser stands in for the auth middleware.
func asUser(id bson.ObjectID) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.UserIDKey, id)
		ctx.Next()
	}
}

func newBuffer(t *testing.T) *upload.Buffer {
	t.Helper()
	buffer, err := upload.NewBuffer(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return buffer
}

func videoRouter(t *testing.T, videos *MockVideoUsecase, user *bson.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != nil {
		r.Use(asUser(*user))
	}
	h := httpHandler.NewVideoHandler(videos, newBuffer(t))
	r.GET("/videos", h.List)
	r.POST("/videos", h.Publish)
	r.GET("/videos/:videoId", h.Get)
	r.DELETE("/videos/:videoId", h.Delete)
	return r
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestVideoHandler_GetAnonymous(t *testing.T) {
	videos := new(MockVideoUsecase)
	videoID := bson.NewObjectID()
	videos.On("Get", mock.Anything, videoID.Hex(), (*bson.ObjectID)(nil)).
		Return(&dto.VideoDetail{ID: videoID, Title: "intro", Views: 6}, nil).Once()

	rec := httptest.NewRecorder()
	videoRouter(t, videos, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/"+videoID.Hex(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 200, body["statusCode"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "intro", data["title"])
	assert.Equal(t, false, data["isLiked"])
	assert.EqualValues(t, 6, data["views"])
}

func TestVideoHandler_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"permission", apperror.Permission("only the video owner can delete it"), http.StatusForbidden, "only the video owner can delete it"},
		{"not found", apperror.NotFound("video not found"), http.StatusNotFound, "video not found"},
		{"input with details", apperror.Input("invalid videoId").WithDetails("videoId must be a 24 character hex id"), http.StatusBadRequest, "invalid videoId"},
		{"timeout", apperror.Upstream("store operation failed", context.DeadlineExceeded), http.StatusGatewayTimeout, "store operation failed"},
		{"unclassified", assert.AnError, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos := new(MockVideoUsecase)
			user := bson.NewObjectID()
			videos.On("Delete", mock.Anything, user, "abc").Return(tt.err).Once()

			rec := httptest.NewRecorder()
			videoRouter(t, videos, &user).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/videos/abc", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[dto.ErrorResponse](t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NotNil(t, body.Errors)
			assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
		})
	}
}

func TestVideoHandler_DeleteWithoutActor(t *testing.T) {
	videos := new(MockVideoUsecase)

	rec := httptest.NewRecorder()
	videoRouter(t, videos, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/videos/abc", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	videos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestVideoHandler_ListPassesQuery(t *testing.T) {
	videos := new(MockVideoUsecase)
	want := dto.VideoListQuery{Page: "2", Limit: "5", Query: "go", SortBy: "views", SortType: "asc"}
	videos.On("List", mock.Anything, want).
		Return(pagination.NewPage[dto.VideoCard](nil, 0, pagination.New(2, 5)), nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/videos?page=2&limit=5&query=go&sortBy=views&sortType=asc", nil)
	videoRouter(t, videos, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{}, data["items"])
	assert.EqualValues(t, 2, data["page"])
	videos.AssertExpectations(t)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestVideoHandler_PublishBuffersParts(t *testing.T) {
	videos := new(MockVideoUsecase)
	user := bson.NewObjectID()
	videos.On("Publish", mock.Anything, user, mock.MatchedBy(func(req dto.PublishVideoRequest) bool {
		return req.Title == "Intro" && req.VideoFile != nil && req.Thumbnail != nil &&
			req.VideoFile.Name == "clip.mp4" && strings.HasSuffix(req.Thumbnail.Path, ".png")
	})).Return(&model.Video{ID: bson.NewObjectID(), Title: "Intro", IsPublished: true}, nil).Once()

	body, contentType := multipartBody(t,
		map[string]string{"title": "Intro", "description": "first"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.PNG"})
	req := httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	videoRouter(t, videos, &user).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	videos.AssertExpectations(t)
}

func TestVideoHandler_PublishMissingTitle(t *testing.T) {
	videos := new(MockVideoUsecase)
	user := bson.NewObjectID()
	body, contentType := multipartBody(t, map[string]string{"description": "first"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	videoRouter(t, videos, &user).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, []string{"title is required"}, resp.Errors)
	videos.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

type MockUserUsecase struct {
	usecase.IUserUsecase
	mock.Mock
}

func (m *MockUserUsecase) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResult), args.Error(1)
}

func TestUserHandler_LoginSetsCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := new(MockUserUsecase)
	users.On("Login", mock.Anything, dto.LoginRequest{Username: "alice", Password: "pw"}).
		Return(&dto.AuthResult{
			User:         &model.User{ID: bson.NewObjectID(), Username: "alice", Password: "hash", RefreshToken: "r"},
			AccessToken:  "a",
			RefreshToken: "r",
		}, nil).Once()
	h := httpHandler.NewUserHandler(users, newBuffer(t), httpHandler.CookieConfig{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
	r := gin.New()
	r.POST("/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, middleware.AccessTokenCookie)
	assert.Equal(t, "a", cookies[middleware.AccessTokenCookie].Value)
	assert.True(t, cookies[middleware.AccessTokenCookie].HttpOnly)
	assert.Equal(t, "r", cookies[middleware.RefreshTokenCookie].Value)
	assert.NotContains(t, rec.Body.String(), `"password"`)
}

func TestUserHandler_LoginRejectsMissingPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := new(MockUserUsecase)
	h := httpHandler.NewUserHandler(users, newBuffer(t), httpHandler.CookieConfig{})
	r := gin.New()
	r.POST("/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, []string{"password is required"}, resp.Errors)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	health := new(MockHealthUsecase)
	health.On("Check", mock.Anything).Return(usecase.HealthReport{
		Status:     "degraded",
		Components: map[string]string{"mongo": "up", "redis": "down: refused"},
	}).Once()
	r := gin.New()
	r.GET("/healthz", httpHandler.NewHealthHandler(health).Check)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, false, body["success"])
}
