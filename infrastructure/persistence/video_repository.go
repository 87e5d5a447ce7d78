package persistence

import (
	"context"
	"time"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/domain/view"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type VideoRepository struct {
	store
}

func NewVideoRepository(db *mongo.Database, timeout time.Duration) repository.IVideo {
	return &VideoRepository{store: newStore(db, timeout)}
}

func (r *VideoRepository) videos() *mongo.Collection { return r.coll(view.Videos) }

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if video.ID.IsZero() {
		video.ID = bson.NewObjectID()
	}
	video.CreatedAt = now()
	video.UpdatedAt = video.CreatedAt
	_, err := r.videos().InsertOne(ctx, video)
	return mapErr(err)
}

func (r *VideoRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Video, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findByID[model.Video](ctx, r.videos(), id)
}

func (r *VideoRepository) Update(ctx context.Context, id bson.ObjectID, update model.VideoUpdate) (*model.Video, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	set := setFields(
		field{"title", update.Title},
		field{"description", update.Description},
		field{"thumbnail", update.Thumbnail},
	)
	return findOneAndUpdate[model.Video](ctx, r.videos(), bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
}

func (r *VideoRepository) SetPublished(ctx context.Context, id bson.ObjectID, published bool) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.videos().UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "isPublished", Value: published},
		{Key: "updatedAt", Value: now()},
	}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id bson.ObjectID) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out struct {
		Views int64 `bson:"views"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "views", Value: 1}})
	err := r.videos().FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, mapErr(err)
	}
	return out.Views, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, r.videos(), id)
}

func (r *VideoRepository) List(ctx context.Context, query view.VideoQuery, req pagination.Request) (pagination.Page[dto.VideoCard], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.VideoCard](ctx, r.videos(), view.VideoList(query), req)
}

func (r *VideoRepository) Detail(ctx context.Context, id bson.ObjectID, viewer *bson.ObjectID) (*dto.VideoDetail, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateOne[dto.VideoDetail](ctx, r.videos(), view.VideoDetail(id, viewer))
}

func (r *VideoRepository) ChannelVideos(ctx context.Context, channel bson.ObjectID, req pagination.Request) (pagination.Page[dto.ChannelVideo], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.ChannelVideo](ctx, r.videos(), view.ChannelVideos(channel), req)
}

// ChannelStats runs against the users collection so a channel without
// videos still yields zero totals.
func (r *VideoRepository) ChannelStats(ctx context.Context, channel bson.ObjectID) (*dto.ChannelStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateOne[dto.ChannelStats](ctx, r.coll(view.Users), view.ChannelStats(channel))
}
