package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/infrastructure/cache"
	"vidtube/infrastructure/lock"
	"vidtube/infrastructure/metrics"
)

type ILikeUsecase interface {
	Toggle(ctx context.Context, actor bson.ObjectID, kind model.TargetKind, targetID string) (*dto.LikeToggle, error)
	LikedVideos(ctx context.Context, actor bson.ObjectID, req pagination.Request) (pagination.Page[dto.LikedVideo], error)
}

type LikeUsecase struct {
	likes    repository.ILike
	videos   repository.IVideo
	comments repository.IComment
	tweets   repository.ITweet
	locker   lock.ILocker
	stats    cache.IStatsCache
}

func NewLikeUsecase(likes repository.ILike, videos repository.IVideo, comments repository.IComment,
	tweets repository.ITweet, locker lock.ILocker, stats cache.IStatsCache,
) ILikeUsecase {
	return &LikeUsecase{likes: likes, videos: videos, comments: comments, tweets: tweets, locker: locker, stats: stats}
}

// Toggle flips the actor's like on one video, comment or tweet. Any
// authenticated user may like any existing target.
func (u *LikeUsecase) Toggle(ctx context.Context, actor bson.ObjectID, kind model.TargetKind, targetID string) (*dto.LikeToggle, error) {
	id, err := parseID(targetID, string(kind)+"Id")
	if err != nil {
		return nil, err
	}

	var channel *bson.ObjectID
	switch kind {
	case model.TargetVideo:
		video, err := u.videos.GetByID(ctx, id)
		if err != nil {
			return nil, storeErr("video", err)
		}
		channel = &video.Owner
	case model.TargetComment:
		if _, err := u.comments.GetByID(ctx, id); err != nil {
			return nil, storeErr("comment", err)
		}
	case model.TargetTweet:
		if _, err := u.tweets.GetByID(ctx, id); err != nil {
			return nil, storeErr("tweet", err)
		}
	default:
		return nil, apperror.Input("unsupported like target")
	}

	target := model.LikeTarget{Kind: kind, ID: id}
	liked, err := toggleMembership(ctx, u.locker, lock.Key("like", actor.Hex(), string(kind)+":"+id.Hex()),
		func(ctx context.Context) (bool, error) { return u.likes.Delete(ctx, target, actor) },
		func(ctx context.Context) error {
			return u.likes.Insert(ctx, model.NewLike(target, actor, now()))
		},
	)
	if err != nil {
		return nil, err
	}

	metrics.Toggle("like_"+string(kind), liked)
	if channel != nil {
		invalidateStats(ctx, u.stats, *channel)
	}
	return &dto.LikeToggle{Liked: liked}, nil
}

func (u *LikeUsecase) LikedVideos(ctx context.Context, actor bson.ObjectID, req pagination.Request) (pagination.Page[dto.LikedVideo], error) {
	page, err := u.likes.LikedVideos(ctx, actor, req)
	if err != nil {
		return pagination.Page[dto.LikedVideo]{}, storeErr("liked videos", err)
	}
	return page, nil
}
