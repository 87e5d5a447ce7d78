package usecase

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/domain/view"
	"vidtube/infrastructure/cache"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/search"
	"vidtube/infrastructure/storage"
)

type IVideoUsecase interface {
	List(ctx context.Context, query dto.VideoListQuery) (pagination.Page[dto.VideoCard], error)
	Publish(ctx context.Context, actor bson.ObjectID, req dto.PublishVideoRequest) (*model.Video, error)
	Get(ctx context.Context, videoID string, viewer *bson.ObjectID) (*dto.VideoDetail, error)
	Update(ctx context.Context, actor bson.ObjectID, videoID string, req dto.UpdateVideoRequest) (*model.Video, error)
	Delete(ctx context.Context, actor bson.ObjectID, videoID string) error
	TogglePublish(ctx context.Context, actor bson.ObjectID, videoID string) (*dto.PublishStatus, error)
}

type VideoUsecase struct {
	videos repository.IVideo
	users  repository.IUser
	media  storage.IMediaStorage
	index  search.IVideoIndex
	stats  cache.IStatsCache
}

// NewVideoUsecase wires the video workflows. index and stats may be nil.
func NewVideoUsecase(videos repository.IVideo, users repository.IUser, media storage.IMediaStorage,
	index search.IVideoIndex, stats cache.IStatsCache,
) IVideoUsecase {
	return &VideoUsecase{videos: videos, users: users, media: media, index: index, stats: stats}
}

func (u *VideoUsecase) List(ctx context.Context, query dto.VideoListQuery) (pagination.Page[dto.VideoCard], error) {
	req := pagination.Parse(query.Page, query.Limit)

	q := view.VideoQuery{Desc: true}
	if query.UserID != "" {
		owner, err := parseID(query.UserID, "userId")
		if err != nil {
			return pagination.Page[dto.VideoCard]{}, err
		}
		q.Owner = &owner
	}
	if query.SortBy != "" {
		if !view.SortableVideoField(query.SortBy) {
			return pagination.Page[dto.VideoCard]{}, apperror.Input("unsupported sortBy").
				WithDetails("sortBy must be one of createdAt, updatedAt, views, duration, title")
		}
		q.SortBy = query.SortBy
	}
	switch strings.ToLower(query.SortType) {
	case "", "desc":
	case "asc":
		q.Desc = false
	default:
		return pagination.Page[dto.VideoCard]{}, apperror.Input("sortType must be asc or desc")
	}

	if text := strings.TrimSpace(query.Query); text != "" && u.index != nil {
		ids, err := u.index.Search(ctx, text)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Search unavailable; listing without text filter")
		} else {
			q.MatchIDs = ids
		}
	}

	page, err := u.videos.List(ctx, q, req)
	if err != nil {
		return pagination.Page[dto.VideoCard]{}, storeErr("videos", err)
	}
	return page, nil
}

func (u *VideoUsecase) Publish(ctx context.Context, actor bson.ObjectID, req dto.PublishVideoRequest) (*model.Video, error) {
	defer release(req.VideoFile, req.Thumbnail)

	title, err := required(req.Title, "title")
	if err != nil {
		return nil, err
	}
	description, err := required(req.Description, "description")
	if err != nil {
		return nil, err
	}
	if req.VideoFile == nil {
		return nil, apperror.Input("videoFile is required")
	}
	if req.Thumbnail == nil {
		return nil, apperror.Input("thumbnail is required")
	}

	videoMedia, thumbMedia, err := storePair(ctx, u.media, req.VideoFile, req.Thumbnail)
	if err != nil {
		return nil, err
	}

	video := &model.Video{
		VideoFile:   videoMedia.URL,
		Thumbnail:   thumbMedia.URL,
		Title:       title,
		Description: description,
		Duration:    videoMedia.Duration,
		IsPublished: true,
		Owner:       actor,
	}
	if err := u.videos.Create(ctx, video); err != nil {
		discard(ctx, u.media, videoMedia.URL)
		discard(ctx, u.media, thumbMedia.URL)
		return nil, storeErr("video", err)
	}

	u.reindex(ctx, video)
	invalidateStats(ctx, u.stats, actor)
	return video, nil
}

// Get renders the video page and then applies the read side effects:
// the view counter and the viewer's watch history.
func (u *VideoUsecase) Get(ctx context.Context, videoID string, viewer *bson.ObjectID) (*dto.VideoDetail, error) {
	id, err := parseID(videoID, "videoId")
	if err != nil {
		return nil, err
	}
	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("video", err)
	}
	if !video.IsPublished && (viewer == nil || !owns(*viewer, video.Owner)) {
		return nil, apperror.NotFound("video not found")
	}

	detail, err := u.videos.Detail(ctx, id, viewer)
	if err != nil {
		return nil, storeErr("video", err)
	}

	views, err := u.videos.IncrementViews(ctx, id)
	if err != nil {
		return nil, storeErr("video", err)
	}
	detail.Views = views
	invalidateStats(ctx, u.stats, video.Owner)

	if viewer != nil {
		if err := u.users.AddToWatchHistory(ctx, *viewer, id); err != nil {
			return nil, storeErr("user", err)
		}
	}
	return detail, nil
}

func (u *VideoUsecase) Update(ctx context.Context, actor bson.ObjectID, videoID string, req dto.UpdateVideoRequest) (*model.Video, error) {
	defer release(req.Thumbnail)

	id, err := parseID(videoID, "videoId")
	if err != nil {
		return nil, err
	}
	title, err := optional(req.Title, "title")
	if err != nil {
		return nil, err
	}
	description, err := optional(req.Description, "description")
	if err != nil {
		return nil, err
	}
	if title == nil && description == nil && req.Thumbnail == nil {
		return nil, apperror.Input("at least one of title, description or thumbnail is required")
	}

	current, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("video", err)
	}
	if !owns(actor, current.Owner) {
		return nil, apperror.Permission("only the video owner can update it")
	}

	update := model.VideoUpdate{Title: title, Description: description}
	var newThumb *model.Media
	if req.Thumbnail != nil {
		newThumb, err = store(ctx, u.media, req.Thumbnail, model.MediaThumbnail)
		if err != nil {
			return nil, err
		}
		update.Thumbnail = &newThumb.URL
	}

	updated, err := u.videos.Update(ctx, id, update)
	if err != nil {
		if newThumb != nil {
			discard(ctx, u.media, newThumb.URL)
		}
		return nil, storeErr("video", err)
	}
	if newThumb != nil {
		discard(ctx, u.media, current.Thumbnail)
	}

	u.reindex(ctx, updated)
	return updated, nil
}

// Delete removes the video row only. Comments, likes and playlist entries
// that reference it are left in place.
func (u *VideoUsecase) Delete(ctx context.Context, actor bson.ObjectID, videoID string) error {
	id, err := parseID(videoID, "videoId")
	if err != nil {
		return err
	}
	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return storeErr("video", err)
	}
	if !owns(actor, video.Owner) {
		return apperror.Permission("only the video owner can delete it")
	}
	if err := u.videos.Delete(ctx, id); err != nil {
		return storeErr("video", err)
	}

	discard(ctx, u.media, video.VideoFile)
	discard(ctx, u.media, video.Thumbnail)
	u.unindex(ctx, id)
	invalidateStats(ctx, u.stats, actor)
	return nil
}

func (u *VideoUsecase) TogglePublish(ctx context.Context, actor bson.ObjectID, videoID string) (*dto.PublishStatus, error) {
	id, err := parseID(videoID, "videoId")
	if err != nil {
		return nil, err
	}
	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("video", err)
	}
	if !owns(actor, video.Owner) {
		return nil, apperror.Permission("only the video owner can change its publish status")
	}

	video.IsPublished = !video.IsPublished
	if err := u.videos.SetPublished(ctx, id, video.IsPublished); err != nil {
		return nil, storeErr("video", err)
	}

	u.reindex(ctx, video)
	invalidateStats(ctx, u.stats, actor)
	return &dto.PublishStatus{IsPublished: video.IsPublished}, nil
}

// reindex keeps the search index in line with the published state.
func (u *VideoUsecase) reindex(ctx context.Context, video *model.Video) {
	if u.index == nil {
		return
	}
	if !video.IsPublished {
		u.unindex(ctx, video.ID)
		return
	}
	if err := u.index.Index(ctx, video); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"videoId": video.ID.Hex(),
			"error":   err,
		}).Warn("Could not index video")
	}
}

func (u *VideoUsecase) unindex(ctx context.Context, id bson.ObjectID) {
	if u.index == nil {
		return
	}
	if err := u.index.Remove(ctx, id); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"videoId": id.Hex(),
			"error":   err,
		}).Warn("Could not remove video from index")
	}
}

func invalidateStats(ctx context.Context, stats cache.IStatsCache, channel bson.ObjectID) {
	if stats == nil {
		return
	}
	if err := stats.Invalidate(ctx, channel); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"channel": channel.Hex(),
			"error":   err,
		}).Warn("Could not invalidate channel stats")
	}
}
