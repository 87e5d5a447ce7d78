package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/view"
)

type IVideo interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Video, error)
	Update(ctx context.Context, id bson.ObjectID, update model.VideoUpdate) (*model.Video, error)
	SetPublished(ctx context.Context, id bson.ObjectID, published bool) error
	// IncrementViews bumps the view counter and returns the new value.
	IncrementViews(ctx context.Context, id bson.ObjectID) (int64, error)
	Delete(ctx context.Context, id bson.ObjectID) error

	List(ctx context.Context, query view.VideoQuery, req pagination.Request) (pagination.Page[dto.VideoCard], error)
	Detail(ctx context.Context, id bson.ObjectID, viewer *bson.ObjectID) (*dto.VideoDetail, error)
	ChannelVideos(ctx context.Context, channel bson.ObjectID, req pagination.Request) (pagination.Page[dto.ChannelVideo], error)
	ChannelStats(ctx context.Context, channel bson.ObjectID) (*dto.ChannelStats, error)
}
