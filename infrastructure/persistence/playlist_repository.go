package persistence

import (
	"context"
	"errors"
	"time"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/repository"
	"vidtube/domain/view"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type PlaylistRepository struct {
	store
}

func NewPlaylistRepository(db *mongo.Database, timeout time.Duration) repository.IPlaylist {
	return &PlaylistRepository{store: newStore(db, timeout)}
}

func (r *PlaylistRepository) playlists() *mongo.Collection { return r.coll(view.Playlists) }

func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if playlist.ID.IsZero() {
		playlist.ID = bson.NewObjectID()
	}
	if playlist.Videos == nil {
		playlist.Videos = []bson.ObjectID{}
	}
	playlist.CreatedAt = now()
	playlist.UpdatedAt = playlist.CreatedAt
	_, err := r.playlists().InsertOne(ctx, playlist)
	return mapErr(err)
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Playlist, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findByID[model.Playlist](ctx, r.playlists(), id)
}

func (r *PlaylistRepository) Update(ctx context.Context, id bson.ObjectID, update model.PlaylistUpdate) (*model.Playlist, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	set := setFields(field{"name", update.Name}, field{"description", update.Description})
	return findOneAndUpdate[model.Playlist](ctx, r.playlists(), bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
}

func (r *PlaylistRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, r.playlists(), id)
}

// AddVideo pushes only when the id is not already in the list, so two
// concurrent adds cannot duplicate an entry.
func (r *PlaylistRepository) AddVideo(ctx context.Context, id, videoID bson.ObjectID) (*model.Playlist, bool, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "videos", Value: bson.D{{Key: "$ne", Value: videoID}}}}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
	}
	return r.modifyVideos(ctx, id, filter, update)
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, id, videoID bson.ObjectID) (*model.Playlist, bool, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "videos", Value: videoID}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
	}
	return r.modifyVideos(ctx, id, filter, update)
}

func (r *PlaylistRepository) modifyVideos(ctx context.Context, id bson.ObjectID, filter, update bson.D) (*model.Playlist, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	playlist, err := findOneAndUpdate[model.Playlist](ctx, r.playlists(), filter, update)
	if err == nil {
		return playlist, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}
	// The guard did not match: either the playlist is gone or there was nothing to change.
	playlist, err = findByID[model.Playlist](ctx, r.playlists(), id)
	if err != nil {
		return nil, false, err
	}
	return playlist, false, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, owner bson.ObjectID) ([]dto.PlaylistCard, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateAll[dto.PlaylistCard](ctx, r.playlists(), view.UserPlaylists(owner))
}

func (r *PlaylistRepository) Detail(ctx context.Context, id bson.ObjectID) (*dto.PlaylistDetail, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateOne[dto.PlaylistDetail](ctx, r.playlists(), view.PlaylistDetail(id))
}
