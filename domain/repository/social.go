package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
)

type IComment interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Comment, error)
	UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	ListByVideo(ctx context.Context, video bson.ObjectID, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.CommentView], error)
}

type ITweet interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Tweet, error)
	UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	ListByOwner(ctx context.Context, owner bson.ObjectID, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.TweetView], error)
}

type ILike interface {
	// Delete removes the (likedBy, target) row and reports whether one existed.
	Delete(ctx context.Context, target model.LikeTarget, likedBy bson.ObjectID) (bool, error)
	// Insert fails with ErrDuplicate when the row already exists.
	Insert(ctx context.Context, like *model.Like) error
	LikedVideos(ctx context.Context, likedBy bson.ObjectID, req pagination.Request) (pagination.Page[dto.LikedVideo], error)
}

type ISubscription interface {
	Delete(ctx context.Context, subscriber, channel bson.ObjectID) (bool, error)
	Insert(ctx context.Context, subscription *model.Subscription) error
	Subscribers(ctx context.Context, channel bson.ObjectID, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.SubscriberView], error)
	SubscribedChannels(ctx context.Context, subscriber bson.ObjectID, req pagination.Request) (pagination.Page[dto.SubscribedChannelView], error)
}

type IPlaylist interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Playlist, error)
	Update(ctx context.Context, id bson.ObjectID, update model.PlaylistUpdate) (*model.Playlist, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	// AddVideo appends videoID unless already present and reports whether it changed.
	AddVideo(ctx context.Context, id, videoID bson.ObjectID) (*model.Playlist, bool, error)
	// RemoveVideo pulls videoID and reports whether it was present.
	RemoveVideo(ctx context.Context, id, videoID bson.ObjectID) (*model.Playlist, bool, error)
	ListByOwner(ctx context.Context, owner bson.ObjectID) ([]dto.PlaylistCard, error)
	Detail(ctx context.Context, id bson.ObjectID) (*dto.PlaylistDetail, error)
}
