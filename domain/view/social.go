package view

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	p "vidtube/domain/pipeline"
)

// VideoComments lists a video's comments, newest first.
func VideoComments(video bson.ObjectID, viewer *bson.ObjectID) p.Pipeline {
	return join(
		stages(p.Match(p.Eq("video", video)), p.SortBy(p.Desc("createdAt"))),
		owner("owner"),
		likes("comment", viewer),
		stages(p.SelectKeys("content", "video", "owner", "likesCount", "isLiked", "createdAt", "updatedAt")),
	)
}

func UserTweets(author bson.ObjectID, viewer *bson.ObjectID) p.Pipeline {
	return join(
		stages(p.Match(p.Eq("owner", author)), p.SortBy(p.Desc("createdAt"))),
		owner("owner", "username", "avatar"),
		likes("tweet", viewer),
		stages(p.SelectKeys("content", "owner", "likesCount", "isLiked", "createdAt", "updatedAt")),
	)
}

// LikedVideos flattens a user's video likes into video cards. Likes whose
// video is gone or unpublished drop out.
func LikedVideos(user bson.ObjectID) p.Pipeline {
	fields := []p.Field{p.Alias("_id", "video._id")}
	for _, name := range cardFields {
		fields = append(fields, p.Alias(name, "video."+name))
	}
	fields = append(fields, p.Alias("likedAt", "createdAt"))
	return p.New(
		p.Match(p.Eq("likedBy", user), p.Present("video")),
		p.Join{From: Videos, LocalField: "video", ForeignField: "_id", As: "video",
			Pipeline: join(
				stages(p.Match(p.Eq("isPublished", true))),
				owner("owner"),
				stages(p.SelectKeys(cardFields...)),
			)},
		p.Collapse{Field: "video"},
		p.Match(p.Present("video")),
		p.SortBy(p.Desc("video.createdAt")),
		p.Project{ExcludeID: true, Fields: fields},
	)
}

// ChannelSubscribers lists who subscribes to channel. isSubscribed tells
// whether viewer follows each subscriber.
func ChannelSubscribers(channel bson.ObjectID, viewer *bson.ObjectID) p.Pipeline {
	return p.New(
		p.Match(p.Eq("channel", channel)),
		p.SortBy(p.Desc("createdAt")),
		p.Join{From: Users, LocalField: "subscriber", ForeignField: "_id", As: "subscriber", Pipeline: channelSummary(viewer)},
		p.Collapse{Field: "subscriber"},
		p.Match(p.Present("subscriber")),
		p.Select(p.Field{Name: "subscriber"}, p.Alias("subscribedAt", "createdAt")),
	)
}

// SubscribedChannels lists the channels subscriber follows.
func SubscribedChannels(subscriber bson.ObjectID) p.Pipeline {
	return p.New(
		p.Match(p.Eq("subscriber", subscriber)),
		p.SortBy(p.Desc("createdAt")),
		p.Join{From: Users, LocalField: "channel", ForeignField: "_id", As: "channel", Pipeline: channelSummary(&subscriber)},
		p.Collapse{Field: "channel"},
		p.Match(p.Present("channel")),
		p.Select(p.Field{Name: "channel"}, p.Alias("subscribedAt", "createdAt")),
	)
}
