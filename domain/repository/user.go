package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/model"
)

type IUser interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	Update(ctx context.Context, id bson.ObjectID, update model.UserUpdate) (*model.User, error)
	SetRefreshToken(ctx context.Context, id bson.ObjectID, token string) error
	AddToWatchHistory(ctx context.Context, id, videoID bson.ObjectID) error
	ChannelProfile(ctx context.Context, username string, viewer *bson.ObjectID) (*dto.ChannelProfile, error)
	WatchHistory(ctx context.Context, id bson.ObjectID) ([]dto.VideoCard, error)
}
