package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/usecase"
)

type playlistFixture struct {
	uc        usecase.IPlaylistUsecase
	playlists *MockPlaylistRepository
	videos    *MockVideoRepository
	users     *MockUserRepository
	owner     bson.ObjectID
	playlist  *model.Playlist
	video     *model.Video
}

func newPlaylistFixture() *playlistFixture {
	f := &playlistFixture{
		playlists: new(MockPlaylistRepository),
		videos:    new(MockVideoRepository),
		users:     new(MockUserRepository),
		owner:     bson.NewObjectID(),
	}
	f.playlist = &model.Playlist{ID: bson.NewObjectID(), Name: "mix", Owner: f.owner}
	f.video = &model.Video{ID: bson.NewObjectID(), Owner: f.owner, IsPublished: true}
	f.uc = usecase.NewPlaylistUsecase(f.playlists, f.videos, f.users)
	return f
}

func TestPlaylistUsecase_AddVideo(t *testing.T) {
	f := newPlaylistFixture()
	updated := &model.Playlist{ID: f.playlist.ID, Owner: f.owner, Videos: []bson.ObjectID{f.video.ID}}

	f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()
	f.videos.On("GetByID", mock.Anything, f.video.ID).Return(f.video, nil).Once()
	f.playlists.On("AddVideo", mock.Anything, f.playlist.ID, f.video.ID).Return(updated, true, nil).Once()

	got, err := f.uc.AddVideo(context.Background(), f.owner, f.video.ID.Hex(), f.playlist.ID.Hex())

	require.NoError(t, err)
	assert.Equal(t, []bson.ObjectID{f.video.ID}, got.Videos)
	f.playlists.AssertExpectations(t)
}

func TestPlaylistUsecase_AddVideo_Rules(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(f *playlistFixture) bson.ObjectID
		wantKind apperror.Kind
	}{
		{
			name: "unpublished video",
			prepare: func(f *playlistFixture) bson.ObjectID {
				f.video.IsPublished = false
				return f.owner
			},
			wantKind: apperror.KindNotFound,
		},
		{
			name: "someone else's video",
			prepare: func(f *playlistFixture) bson.ObjectID {
				f.video.Owner = bson.NewObjectID()
				return f.owner
			},
			wantKind: apperror.KindPermission,
		},
		{
			name: "someone else's playlist",
			prepare: func(f *playlistFixture) bson.ObjectID {
				other := bson.NewObjectID()
				f.video.Owner = other
				return other
			},
			wantKind: apperror.KindPermission,
		},
		{
			name: "already present",
			prepare: func(f *playlistFixture) bson.ObjectID {
				f.playlist.Videos = []bson.ObjectID{f.video.ID}
				return f.owner
			},
			wantKind: apperror.KindConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlaylistFixture()
			actor := tt.prepare(f)
			f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()
			f.videos.On("GetByID", mock.Anything, f.video.ID).Return(f.video, nil).Once()

			_, err := f.uc.AddVideo(context.Background(), actor, f.video.ID.Hex(), f.playlist.ID.Hex())

			assert.True(t, apperror.Is(err, tt.wantKind), "got %v", err)
			f.playlists.AssertNotCalled(t, "AddVideo", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPlaylistUsecase_AddVideo_LostRace(t *testing.T) {
	f := newPlaylistFixture()
	f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()
	f.videos.On("GetByID", mock.Anything, f.video.ID).Return(f.video, nil).Once()
	f.playlists.On("AddVideo", mock.Anything, f.playlist.ID, f.video.ID).Return(f.playlist, false, nil).Once()

	_, err := f.uc.AddVideo(context.Background(), f.owner, f.video.ID.Hex(), f.playlist.ID.Hex())

	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestPlaylistUsecase_RemoveVideo(t *testing.T) {
	f := newPlaylistFixture()
	f.playlist.Videos = []bson.ObjectID{f.video.ID}
	f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()
	f.playlists.On("RemoveVideo", mock.Anything, f.playlist.ID, f.video.ID).
		Return(&model.Playlist{ID: f.playlist.ID, Owner: f.owner, Videos: []bson.ObjectID{}}, true, nil).Once()

	got, err := f.uc.RemoveVideo(context.Background(), f.owner, f.video.ID.Hex(), f.playlist.ID.Hex())

	require.NoError(t, err)
	assert.Empty(t, got.Videos)
}

func TestPlaylistUsecase_RemoveVideo_Absent(t *testing.T) {
	f := newPlaylistFixture()
	f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()

	_, err := f.uc.RemoveVideo(context.Background(), f.owner, f.video.ID.Hex(), f.playlist.ID.Hex())

	assert.True(t, apperror.Is(err, apperror.KindInput))
	f.playlists.AssertNotCalled(t, "RemoveVideo", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaylistUsecase_UpdateByStranger(t *testing.T) {
	f := newPlaylistFixture()
	name := "renamed"
	f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()

	_, err := f.uc.Update(context.Background(), bson.NewObjectID(), f.playlist.ID.Hex(), dto.UpdatePlaylistRequest{Name: &name})

	assert.True(t, apperror.Is(err, apperror.KindPermission))
	f.playlists.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaylistUsecase_DeleteByStranger(t *testing.T) {
	f := newPlaylistFixture()
	f.playlists.On("GetByID", mock.Anything, f.playlist.ID).Return(f.playlist, nil).Once()

	err := f.uc.Delete(context.Background(), bson.NewObjectID(), f.playlist.ID.Hex())

	assert.True(t, apperror.Is(err, apperror.KindPermission))
	f.playlists.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPlaylistUsecase_CreateValidation(t *testing.T) {
	f := newPlaylistFixture()

	_, err := f.uc.Create(context.Background(), f.owner, dto.CreatePlaylistRequest{Name: " ", Description: "d"})

	assert.True(t, apperror.Is(err, apperror.KindInput))
	f.playlists.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
