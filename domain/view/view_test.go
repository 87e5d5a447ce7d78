package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/pipeline"
	"vidtube/domain/view"
)

type fixture struct {
	alice, bob, carol bson.ObjectID
	published         bson.ObjectID
	draft             bson.ObjectID
	older             bson.ObjectID
	data              pipeline.Collections
}

func newFixture() *fixture {
	f := &fixture{
		alice: bson.NewObjectID(), bob: bson.NewObjectID(), carol: bson.NewObjectID(),
		older: bson.NewObjectID(), published: bson.NewObjectID(), draft: bson.NewObjectID(),
	}
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	user := func(id bson.ObjectID, name string) bson.M {
		return bson.M{"_id": id, "username": name, "fullName": name + " full", "avatar": name + ".png",
			"email": name + "@example.com", "password": "hash", "refreshToken": "token", "createdAt": t0}
	}
	video := func(id, owner bson.ObjectID, title string, views int64, published bool, at time.Time) bson.M {
		return bson.M{"_id": id, "owner": owner, "title": title, "description": title + " description",
			"videoFile": title + ".mp4", "thumbnail": title + ".jpg", "duration": 12.5, "views": views,
			"isPublished": published, "createdAt": at}
	}
	f.data = pipeline.Collections{
		view.Users: {user(f.alice, "alice"), user(f.bob, "bob"), user(f.carol, "carol")},
		view.Videos: {
			video(f.older, f.alice, "older", 40, true, t0),
			video(f.published, f.alice, "published", 10, true, t0.Add(time.Hour)),
			video(f.draft, f.alice, "draft", 1, false, t0.Add(2*time.Hour)),
		},
		view.Likes: {
			{"_id": bson.NewObjectID(), "video": f.published, "likedBy": f.carol, "createdAt": t0},
			{"_id": bson.NewObjectID(), "video": f.older, "likedBy": f.carol, "createdAt": t0},
			{"_id": bson.NewObjectID(), "video": f.draft, "likedBy": f.carol, "createdAt": t0},
		},
		view.Subscriptions: {
			{"_id": bson.NewObjectID(), "subscriber": f.carol, "channel": f.alice, "createdAt": t0},
			{"_id": bson.NewObjectID(), "subscriber": f.alice, "channel": f.carol, "createdAt": t0},
		},
	}
	return f
}

func (f *fixture) run(t *testing.T, collection string, p pipeline.Pipeline) []bson.M {
	t.Helper()
	out, err := p.Evaluate(f.data[collection], f.data)
	require.NoError(t, err)
	return out
}

func decode[T any](t *testing.T, docs []bson.M) []T {
	t.Helper()
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		require.NoError(t, err)
		var v T
		require.NoError(t, bson.Unmarshal(raw, &v))
		out = append(out, v)
	}
	return out
}

func TestVideoDetail_ViewerWithoutMembership(t *testing.T) {
	f := newFixture()
	out := decode[dto.VideoDetail](t, f.run(t, view.Videos, view.VideoDetail(f.published, &f.bob)))
	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, f.published, got.ID)
	assert.False(t, got.IsLiked)
	assert.EqualValues(t, 1, got.LikesCount)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "alice", got.Owner.Username)
	assert.False(t, got.Owner.IsSubscribed)
	assert.EqualValues(t, 1, got.Owner.SubscribersCount)
}

func TestVideoDetail_ViewerWithMembership(t *testing.T) {
	f := newFixture()
	out := decode[dto.VideoDetail](t, f.run(t, view.Videos, view.VideoDetail(f.published, &f.carol)))
	require.Len(t, out, 1)
	assert.True(t, out[0].IsLiked)
	assert.True(t, out[0].Owner.IsSubscribed)
}

func TestVideoDetail_AnonymousFlagsAreFalse(t *testing.T) {
	f := newFixture()
	docs := f.run(t, view.Videos, view.VideoDetail(f.published, nil))
	require.Len(t, docs, 1)
	assert.Equal(t, false, docs[0]["isLiked"])
	assert.Equal(t, false, docs[0]["owner"].(bson.M)["isSubscribed"])
	assert.NotContains(t, docs[0]["owner"], "password")
	assert.NotContains(t, docs[0], "likes")
}

func TestVideoDetail_MissingOwnerCollapsesToAbsent(t *testing.T) {
	f := newFixture()
	f.data[view.Users] = nil
	out := decode[dto.VideoDetail](t, f.run(t, view.Videos, view.VideoDetail(f.published, &f.bob)))
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Owner)
}

func TestVideoList(t *testing.T) {
	f := newFixture()

	t.Run("published only newest first", func(t *testing.T) {
		out := decode[dto.VideoCard](t, f.run(t, view.Videos, view.VideoList(view.VideoQuery{})))
		require.Len(t, out, 2)
		assert.Equal(t, f.published, out[0].ID)
		assert.Equal(t, f.older, out[1].ID)
		require.NotNil(t, out[0].Owner)
		assert.Equal(t, "alice", out[0].Owner.Username)
	})

	t.Run("caller sort", func(t *testing.T) {
		out := decode[dto.VideoCard](t, f.run(t, view.Videos, view.VideoList(view.VideoQuery{SortBy: "views", Desc: true})))
		require.Len(t, out, 2)
		assert.Equal(t, f.older, out[0].ID)
	})

	t.Run("unknown sort field falls back", func(t *testing.T) {
		out := decode[dto.VideoCard](t, f.run(t, view.Videos, view.VideoList(view.VideoQuery{SortBy: "password"})))
		assert.Equal(t, f.published, out[0].ID)
	})

	t.Run("owner filter", func(t *testing.T) {
		out := f.run(t, view.Videos, view.VideoList(view.VideoQuery{Owner: &f.bob}))
		assert.Empty(t, out)
	})

	t.Run("search hits", func(t *testing.T) {
		out := decode[dto.VideoCard](t, f.run(t, view.Videos, view.VideoList(view.VideoQuery{MatchIDs: []bson.ObjectID{f.older, f.draft}})))
		require.Len(t, out, 1)
		assert.Equal(t, f.older, out[0].ID)

		assert.Empty(t, f.run(t, view.Videos, view.VideoList(view.VideoQuery{MatchIDs: []bson.ObjectID{}})))
	})
}

func TestVideoComments_CountsPerComment(t *testing.T) {
	f := newFixture()
	first, second := bson.NewObjectID(), bson.NewObjectID()
	t0 := time.Now().UTC().Truncate(time.Millisecond)
	f.data[view.Comments] = []bson.M{
		{"_id": first, "video": f.published, "owner": f.bob, "content": "first", "createdAt": t0},
		{"_id": second, "video": f.published, "owner": f.carol, "content": "second", "createdAt": t0.Add(time.Minute)},
		{"_id": bson.NewObjectID(), "video": f.older, "owner": f.bob, "content": "elsewhere", "createdAt": t0},
	}
	f.data[view.Likes] = append(f.data[view.Likes],
		bson.M{"_id": bson.NewObjectID(), "comment": first, "likedBy": f.alice},
		bson.M{"_id": bson.NewObjectID(), "comment": first, "likedBy": f.carol},
	)

	out := decode[dto.CommentView](t, f.run(t, view.Comments, view.VideoComments(f.published, &f.alice)))
	require.Len(t, out, 2)
	assert.Equal(t, second, out[0].ID)
	assert.EqualValues(t, 0, out[0].LikesCount)
	assert.False(t, out[0].IsLiked)
	assert.EqualValues(t, 2, out[1].LikesCount)
	assert.True(t, out[1].IsLiked)
	assert.Equal(t, "bob", out[1].Owner.Username)
}

func TestUserTweets(t *testing.T) {
	f := newFixture()
	tweet := bson.NewObjectID()
	f.data[view.Tweets] = []bson.M{{"_id": tweet, "owner": f.bob, "content": "hello", "createdAt": time.Now()}}
	f.data[view.Likes] = append(f.data[view.Likes], bson.M{"_id": bson.NewObjectID(), "tweet": tweet, "likedBy": f.alice})

	out := decode[dto.TweetView](t, f.run(t, view.Tweets, view.UserTweets(f.bob, &f.alice)))
	require.Len(t, out, 1)
	assert.EqualValues(t, 1, out[0].LikesCount)
	assert.True(t, out[0].IsLiked)
	assert.Equal(t, "bob", out[0].Owner.Username)
	assert.Empty(t, out[0].Owner.FullName)
}

func TestLikedVideos_FlattensAndDropsUnpublished(t *testing.T) {
	f := newFixture()
	out := decode[dto.LikedVideo](t, f.run(t, view.Likes, view.LikedVideos(f.carol)))
	require.Len(t, out, 2)
	assert.Equal(t, f.published, out[0].ID)
	assert.Equal(t, "published", out[0].Title)
	assert.Equal(t, f.older, out[1].ID)
	assert.Equal(t, "alice", out[1].Owner.Username)
}

func TestChannelSubscribers(t *testing.T) {
	f := newFixture()
	out := decode[dto.SubscriberView](t, f.run(t, view.Subscriptions, view.ChannelSubscribers(f.alice, &f.alice)))
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Subscriber)
	assert.Equal(t, f.carol, out[0].Subscriber.ID)
	assert.EqualValues(t, 1, out[0].Subscriber.SubscribersCount)
	assert.True(t, out[0].Subscriber.IsSubscribed)
}

func TestSubscribedChannels(t *testing.T) {
	f := newFixture()
	out := decode[dto.SubscribedChannelView](t, f.run(t, view.Subscriptions, view.SubscribedChannels(f.carol)))
	require.Len(t, out, 1)
	assert.Equal(t, "alice", out[0].Channel.Username)
	assert.EqualValues(t, 1, out[0].Channel.SubscribersCount)
}

func TestUserPlaylists_ThumbnailByIdentityOrder(t *testing.T) {
	f := newFixture()
	f.data[view.Playlists] = []bson.M{
		{"_id": bson.NewObjectID(), "owner": f.alice, "name": "mix", "description": "d",
			"videos": bson.A{f.published, f.older}, "createdAt": time.Now()},
		{"_id": bson.NewObjectID(), "owner": f.alice, "name": "empty", "description": "d",
			"videos": bson.A{}, "createdAt": time.Now().Add(-time.Hour)},
	}
	out := decode[dto.PlaylistCard](t, f.run(t, view.Playlists, view.UserPlaylists(f.alice)))
	require.Len(t, out, 2)
	assert.Equal(t, "mix", out[0].Name)
	assert.EqualValues(t, 2, out[0].TotalVideos)
	assert.EqualValues(t, 50, out[0].TotalViews)
	assert.Equal(t, "older.jpg", out[0].Thumbnail)
	assert.EqualValues(t, 0, out[1].TotalVideos)
	assert.Empty(t, out[1].Thumbnail)
}

func TestPlaylistDetail(t *testing.T) {
	f := newFixture()
	id := bson.NewObjectID()
	f.data[view.Playlists] = []bson.M{{"_id": id, "owner": f.bob, "name": "mix", "description": "d",
		"videos": bson.A{f.older, f.draft, f.published}, "createdAt": time.Now()}}

	out := decode[dto.PlaylistDetail](t, f.run(t, view.Playlists, view.PlaylistDetail(id)))
	require.Len(t, out, 1)
	assert.Equal(t, "bob", out[0].Owner.Username)
	require.Len(t, out[0].Videos, 2)
	assert.Equal(t, f.published, out[0].Videos[0].ID)
	assert.Empty(t, out[0].Videos[0].VideoFile)
	assert.EqualValues(t, 2, out[0].TotalVideos)
	assert.EqualValues(t, 50, out[0].TotalViews)
}

func TestChannelProfile(t *testing.T) {
	f := newFixture()
	docs := f.run(t, view.Users, view.ChannelProfile("alice", &f.carol))
	require.Len(t, docs, 1)
	assert.NotContains(t, docs[0], "password")
	assert.NotContains(t, docs[0], "refreshToken")

	out := decode[dto.ChannelProfile](t, docs)
	assert.EqualValues(t, 1, out[0].SubscribersCount)
	assert.EqualValues(t, 1, out[0].ChannelsSubscribedToCount)
	assert.True(t, out[0].IsSubscribed)

	assert.Empty(t, f.run(t, view.Users, view.ChannelProfile("nobody", nil)))
}

func TestWatchHistory(t *testing.T) {
	f := newFixture()
	f.data[view.Users][1]["watchHistory"] = bson.A{f.published}
	out := decode[dto.WatchHistory](t, f.run(t, view.Users, view.WatchHistory(f.bob)))
	require.Len(t, out, 1)
	require.Len(t, out[0].WatchHistory, 1)
	assert.Equal(t, "alice", out[0].WatchHistory[0].Owner.Username)
}

func TestChannelStats(t *testing.T) {
	f := newFixture()
	out := decode[dto.ChannelStats](t, f.run(t, view.Users, view.ChannelStats(f.alice)))
	require.Len(t, out, 1)
	assert.Equal(t, dto.ChannelStats{TotalVideos: 3, TotalViews: 51, TotalLikes: 3, TotalSubscribers: 1}, out[0])
}

func TestChannelVideos_IncludesDrafts(t *testing.T) {
	f := newFixture()
	out := decode[dto.ChannelVideo](t, f.run(t, view.Videos, view.ChannelVideos(f.alice)))
	require.Len(t, out, 3)
	assert.Equal(t, f.draft, out[0].ID)
	assert.EqualValues(t, 1, out[0].LikesCount)
}
