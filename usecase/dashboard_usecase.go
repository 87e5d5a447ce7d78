package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/infrastructure/cache"
	"vidtube/infrastructure/logger"
)

type IDashboardUsecase interface {
	Stats(ctx context.Context, actor bson.ObjectID) (*dto.ChannelStats, error)
	Videos(ctx context.Context, actor bson.ObjectID, req pagination.Request) (pagination.Page[dto.ChannelVideo], error)
}

type DashboardUsecase struct {
	videos repository.IVideo
	stats  cache.IStatsCache
}

func NewDashboardUsecase(videos repository.IVideo, stats cache.IStatsCache) IDashboardUsecase {
	return &DashboardUsecase{videos: videos, stats: stats}
}

// Stats serves channel totals from cache when possible. Cache errors
// fall back to recomputing.
func (u *DashboardUsecase) Stats(ctx context.Context, actor bson.ObjectID) (*dto.ChannelStats, error) {
	if u.stats != nil {
		cached, err := u.stats.Get(ctx, actor)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := u.videos.ChannelStats(ctx, actor)
	if err != nil {
		return nil, storeErr("channel", err)
	}

	if u.stats != nil {
		if err := u.stats.Set(ctx, actor, stats); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Stats cache write failed")
		}
	}
	return stats, nil
}

func (u *DashboardUsecase) Videos(ctx context.Context, actor bson.ObjectID, req pagination.Request) (pagination.Page[dto.ChannelVideo], error) {
	page, err := u.videos.ChannelVideos(ctx, actor, req)
	if err != nil {
		return pagination.Page[dto.ChannelVideo]{}, storeErr("videos", err)
	}
	return page, nil
}
