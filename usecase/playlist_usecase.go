package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/repository"
)

type IPlaylistUsecase interface {
	Create(ctx context.Context, actor bson.ObjectID, req dto.CreatePlaylistRequest) (*model.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]dto.PlaylistCard, error)
	Get(ctx context.Context, playlistID string) (*dto.PlaylistDetail, error)
	Update(ctx context.Context, actor bson.ObjectID, playlistID string, req dto.UpdatePlaylistRequest) (*model.Playlist, error)
	Delete(ctx context.Context, actor bson.ObjectID, playlistID string) error
	AddVideo(ctx context.Context, actor bson.ObjectID, videoID, playlistID string) (*model.Playlist, error)
	RemoveVideo(ctx context.Context, actor bson.ObjectID, videoID, playlistID string) (*model.Playlist, error)
}

type PlaylistUsecase struct {
	playlists repository.IPlaylist
	videos    repository.IVideo
	users     repository.IUser
}

func NewPlaylistUsecase(playlists repository.IPlaylist, videos repository.IVideo, users repository.IUser) IPlaylistUsecase {
	return &PlaylistUsecase{playlists: playlists, videos: videos, users: users}
}

func (u *PlaylistUsecase) Create(ctx context.Context, actor bson.ObjectID, req dto.CreatePlaylistRequest) (*model.Playlist, error) {
	name, err := required(req.Name, "name")
	if err != nil {
		return nil, err
	}
	description, err := required(req.Description, "description")
	if err != nil {
		return nil, err
	}
	playlist := &model.Playlist{Name: name, Description: description, Owner: actor}
	if err := u.playlists.Create(ctx, playlist); err != nil {
		return nil, storeErr("playlist", err)
	}
	return playlist, nil
}

func (u *PlaylistUsecase) ListByUser(ctx context.Context, userID string) ([]dto.PlaylistCard, error) {
	id, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}
	if _, err := u.users.GetByID(ctx, id); err != nil {
		return nil, storeErr("user", err)
	}
	cards, err := u.playlists.ListByOwner(ctx, id)
	if err != nil {
		return nil, storeErr("playlists", err)
	}
	return cards, nil
}

func (u *PlaylistUsecase) Get(ctx context.Context, playlistID string) (*dto.PlaylistDetail, error) {
	id, err := parseID(playlistID, "playlistId")
	if err != nil {
		return nil, err
	}
	detail, err := u.playlists.Detail(ctx, id)
	if err != nil {
		return nil, storeErr("playlist", err)
	}
	return detail, nil
}

func (u *PlaylistUsecase) Update(ctx context.Context, actor bson.ObjectID, playlistID string, req dto.UpdatePlaylistRequest) (*model.Playlist, error) {
	id, err := parseID(playlistID, "playlistId")
	if err != nil {
		return nil, err
	}
	name, err := optional(req.Name, "name")
	if err != nil {
		return nil, err
	}
	description, err := optional(req.Description, "description")
	if err != nil {
		return nil, err
	}
	if name == nil && description == nil {
		return nil, apperror.Input("at least one of name or description is required")
	}

	if _, err := u.owned(ctx, actor, id, "update"); err != nil {
		return nil, err
	}
	updated, err := u.playlists.Update(ctx, id, model.PlaylistUpdate{Name: name, Description: description})
	if err != nil {
		return nil, storeErr("playlist", err)
	}
	return updated, nil
}

func (u *PlaylistUsecase) Delete(ctx context.Context, actor bson.ObjectID, playlistID string) error {
	id, err := parseID(playlistID, "playlistId")
	if err != nil {
		return err
	}
	if _, err := u.owned(ctx, actor, id, "delete"); err != nil {
		return err
	}
	return storeErr("playlist", u.playlists.Delete(ctx, id))
}

// AddVideo appends one of the actor's published videos to one of the
// actor's playlists. A video already in the list is a conflict.
func (u *PlaylistUsecase) AddVideo(ctx context.Context, actor bson.ObjectID, videoID, playlistID string) (*model.Playlist, error) {
	vid, err := parseID(videoID, "videoId")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(playlistID, "playlistId")
	if err != nil {
		return nil, err
	}

	playlist, err := u.playlists.GetByID(ctx, pid)
	if err != nil {
		return nil, storeErr("playlist", err)
	}
	video, err := u.videos.GetByID(ctx, vid)
	if err != nil {
		return nil, storeErr("video", err)
	}
	if !video.IsPublished {
		return nil, apperror.NotFound("video is not published yet")
	}
	if !owns(actor, video.Owner) {
		return nil, apperror.Permission("only your own videos can be added to a playlist")
	}
	if !owns(actor, playlist.Owner) {
		return nil, apperror.Permission("only the playlist owner can add videos")
	}
	if playlist.Contains(vid) {
		return nil, apperror.Conflict("video already in the playlist")
	}

	updated, changed, err := u.playlists.AddVideo(ctx, pid, vid)
	if err != nil {
		return nil, storeErr("playlist", err)
	}
	if !changed {
		return nil, apperror.Conflict("video already in the playlist")
	}
	return updated, nil
}

func (u *PlaylistUsecase) RemoveVideo(ctx context.Context, actor bson.ObjectID, videoID, playlistID string) (*model.Playlist, error) {
	vid, err := parseID(videoID, "videoId")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(playlistID, "playlistId")
	if err != nil {
		return nil, err
	}

	playlist, err := u.owned(ctx, actor, pid, "remove videos from")
	if err != nil {
		return nil, err
	}
	if !playlist.Contains(vid) {
		return nil, apperror.Input("video not present in the playlist")
	}

	updated, changed, err := u.playlists.RemoveVideo(ctx, pid, vid)
	if err != nil {
		return nil, storeErr("playlist", err)
	}
	if !changed {
		return nil, apperror.Input("video not present in the playlist")
	}
	return updated, nil
}

func (u *PlaylistUsecase) owned(ctx context.Context, actor, id bson.ObjectID, action string) (*model.Playlist, error) {
	playlist, err := u.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("playlist", err)
	}
	if !owns(actor, playlist.Owner) {
		return nil, apperror.Permission("only the playlist owner can " + action + " it")
	}
	return playlist, nil
}
