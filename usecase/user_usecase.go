package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/repository"
	"vidtube/infrastructure/storage"
	"vidtube/infrastructure/upload"
	"vidtube/infrastructure/utils"
)

type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type IUserUsecase interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResult, error)
	Logout(ctx context.Context, actor bson.ObjectID) error
	RefreshToken(ctx context.Context, token string) (*dto.AuthResult, error)
	ChangePassword(ctx context.Context, actor bson.ObjectID, req dto.ChangePasswordRequest) error
	CurrentUser(ctx context.Context, actor bson.ObjectID) (*model.User, error)
	UpdateAccount(ctx context.Context, actor bson.ObjectID, req dto.UpdateAccountRequest) (*model.User, error)
	UpdateAvatar(ctx context.Context, actor bson.ObjectID, file *upload.File) (*model.User, error)
	UpdateCoverImage(ctx context.Context, actor bson.ObjectID, file *upload.File) (*model.User, error)
	ChannelProfile(ctx context.Context, username string, viewer *bson.ObjectID) (*dto.ChannelProfile, error)
	WatchHistory(ctx context.Context, actor bson.ObjectID) ([]dto.VideoCard, error)
}

type UserUsecase struct {
	users  repository.IUser
	media  storage.IMediaStorage
	tokens TokenConfig
}

func NewUserUsecase(users repository.IUser, media storage.IMediaStorage, tokens TokenConfig) IUserUsecase {
	return &UserUsecase{users: users, media: media, tokens: tokens}
}

func (u *UserUsecase) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	defer release(req.Avatar, req.CoverImage)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", req.FullName}, {"email", req.Email}, {"username", req.Username}, {"password", req.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		return nil, apperror.Input("all fields are required").WithDetails(missing...)
	}
	email, err := validEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if req.Avatar == nil {
		return nil, apperror.Input("avatar file is required")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if _, err := u.users.GetByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, apperror.Conflict("user with email or username already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr("user", err)
	}

	avatar, err := store(ctx, u.media, req.Avatar, model.MediaAvatar)
	if err != nil {
		return nil, err
	}
	var coverURL string
	if req.CoverImage != nil {
		cover, err := store(ctx, u.media, req.CoverImage, model.MediaCover)
		if err != nil {
			discard(ctx, u.media, avatar.URL)
			return nil, err
		}
		coverURL = cover.URL
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		discard(ctx, u.media, avatar.URL)
		discard(ctx, u.media, coverURL)
		return nil, apperror.Wrap(apperror.KindInternal, "could not hash password", err)
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		FullName:   strings.TrimSpace(req.FullName),
		Avatar:     avatar.URL,
		CoverImage: coverURL,
		Password:   hash,
	}
	if err := u.users.Create(ctx, user); err != nil {
		discard(ctx, u.media, avatar.URL)
		discard(ctx, u.media, coverURL)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Wrap(apperror.KindConflict, "user with email or username already exists", err)
		}
		return nil, storeErr("user", err)
	}
	return user, nil
}

func (u *UserUsecase) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResult, error) {
	if strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "" {
		return nil, apperror.Input("username or email is required")
	}
	if req.Password == "" {
		return nil, apperror.Input("password is required")
	}

	user, err := u.users.GetByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, storeErr("user", err)
	}
	ok, err := utils.CheckPassword(user.Password, req.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "could not verify credentials", err)
	}
	if !ok {
		return nil, apperror.Auth("invalid user credentials")
	}
	return u.issueTokens(ctx, user)
}

func (u *UserUsecase) Logout(ctx context.Context, actor bson.ObjectID) error {
	return storeErr("user", u.users.SetRefreshToken(ctx, actor, ""))
}

// RefreshToken rotates the token pair. The presented token must be the
// one currently stored on the user, so each refresh token works once.
func (u *UserUsecase) RefreshToken(ctx context.Context, token string) (*dto.AuthResult, error) {
	if token == "" {
		return nil, apperror.Auth("unauthorized request")
	}
	var claims jwt.StandardClaims
	if err := utils.ParseToken(token, u.tokens.RefreshSecret, &claims); err != nil {
		return nil, apperror.Wrap(apperror.KindAuth, "invalid refresh token", err)
	}
	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, apperror.Auth("invalid refresh token")
	}

	user, err := u.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Auth("invalid refresh token")
	}
	if err != nil {
		return nil, storeErr("user", err)
	}
	if user.RefreshToken != token {
		return nil, apperror.Auth("refresh token is expired or used")
	}
	return u.issueTokens(ctx, user)
}

func (u *UserUsecase) issueTokens(ctx context.Context, user *model.User) (*dto.AuthResult, error) {
	issued := now()
	access, err := utils.GenerateToken(model.UserClaims{
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  issued.Unix(),
			ExpiresAt: issued.Add(u.tokens.AccessTTL).Unix(),
		},
	}, u.tokens.AccessSecret)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "could not generate access token", err)
	}
	refresh, err := utils.GenerateToken(jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   user.ID.Hex(),
		IssuedAt:  issued.Unix(),
		ExpiresAt: issued.Add(u.tokens.RefreshTTL).Unix(),
	}, u.tokens.RefreshSecret)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "could not generate refresh token", err)
	}

	if err := u.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, storeErr("user", err)
	}
	user.RefreshToken = refresh
	return &dto.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (u *UserUsecase) ChangePassword(ctx context.Context, actor bson.ObjectID, req dto.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperror.Input("oldPassword and newPassword are required")
	}
	if req.OldPassword == req.NewPassword {
		return apperror.Input("old and new password must be different")
	}

	user, err := u.users.GetByID(ctx, actor)
	if err != nil {
		return storeErr("user", err)
	}
	ok, err := utils.CheckPassword(user.Password, req.OldPassword)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "could not verify credentials", err)
	}
	if !ok {
		return apperror.Input("invalid old password")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "could not hash password", err)
	}
	_, err = u.users.Update(ctx, actor, model.UserUpdate{Password: &hash})
	return storeErr("user", err)
}

func (u *UserUsecase) CurrentUser(ctx context.Context, actor bson.ObjectID) (*model.User, error) {
	user, err := u.users.GetByID(ctx, actor)
	if err != nil {
		return nil, storeErr("user", err)
	}
	return user, nil
}

func (u *UserUsecase) UpdateAccount(ctx context.Context, actor bson.ObjectID, req dto.UpdateAccountRequest) (*model.User, error) {
	fullName, err := optional(req.FullName, "fullName")
	if err != nil {
		return nil, err
	}
	email, err := optional(req.Email, "email")
	if err != nil {
		return nil, err
	}
	if fullName == nil && email == nil {
		return nil, apperror.Input("at least one of fullName or email is required")
	}
	if email != nil {
		valid, err := validEmail(*email)
		if err != nil {
			return nil, err
		}
		email = &valid
	}

	user, err := u.users.Update(ctx, actor, model.UserUpdate{FullName: fullName, Email: email})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperror.Wrap(apperror.KindConflict, "email is already in use", err)
	}
	if err != nil {
		return nil, storeErr("user", err)
	}
	return user, nil
}

func (u *UserUsecase) UpdateAvatar(ctx context.Context, actor bson.ObjectID, file *upload.File) (*model.User, error) {
	return u.replaceImage(ctx, actor, file, model.MediaAvatar)
}

func (u *UserUsecase) UpdateCoverImage(ctx context.Context, actor bson.ObjectID, file *upload.File) (*model.User, error) {
	return u.replaceImage(ctx, actor, file, model.MediaCover)
}

// replaceImage stores the new image, points the user at it and then drops
// the superseded object.
func (u *UserUsecase) replaceImage(ctx context.Context, actor bson.ObjectID, file *upload.File, kind model.MediaKind) (*model.User, error) {
	defer release(file)
	if file == nil {
		return nil, apperror.Input(string(kind) + " file is missing")
	}

	current, err := u.users.GetByID(ctx, actor)
	if err != nil {
		return nil, storeErr("user", err)
	}
	stored, err := store(ctx, u.media, file, kind)
	if err != nil {
		return nil, err
	}

	update := model.UserUpdate{Avatar: &stored.URL}
	previous := current.Avatar
	if kind == model.MediaCover {
		update = model.UserUpdate{CoverImage: &stored.URL}
		previous = current.CoverImage
	}

	user, err := u.users.Update(ctx, actor, update)
	if err != nil {
		discard(ctx, u.media, stored.URL)
		return nil, storeErr("user", err)
	}
	discard(ctx, u.media, previous)
	return user, nil
}

func (u *UserUsecase) ChannelProfile(ctx context.Context, username string, viewer *bson.ObjectID) (*dto.ChannelProfile, error) {
	username, err := required(username, "username")
	if err != nil {
		return nil, err
	}
	profile, err := u.users.ChannelProfile(ctx, username, viewer)
	if err != nil {
		return nil, storeErr("channel", err)
	}
	return profile, nil
}

func (u *UserUsecase) WatchHistory(ctx context.Context, actor bson.ObjectID) ([]dto.VideoCard, error) {
	history, err := u.users.WatchHistory(ctx, actor)
	if err != nil {
		return nil, storeErr("user", err)
	}
	return history, nil
}

func validEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.Input("invalid email")
	}
	return email, nil
}
