package view

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	p "vidtube/domain/pipeline"
)

func ChannelProfile(username string, viewer *bson.ObjectID) p.Pipeline {
	return join(
		stages(p.Match(p.Eq("username", username))),
		subscribers(viewer),
		stages(
			p.Join{From: Subscriptions, LocalField: "_id", ForeignField: "subscriber", As: "subscribedTo",
				Pipeline: p.New(p.SelectKeys("channel"))},
			p.Count("channelsSubscribedToCount", "subscribedTo"),
			p.SelectKeys(
				"fullName", "username", "email", "avatar", "coverImage",
				"subscribersCount", "channelsSubscribedToCount", "isSubscribed", "createdAt",
			),
		),
	)
}

func WatchHistory(user bson.ObjectID) p.Pipeline {
	return p.New(
		p.Match(p.Eq("_id", user)),
		p.Join{From: Videos, LocalField: "watchHistory", ForeignField: "_id", As: "watchHistory",
			Pipeline: join(owner("owner"), stages(p.SelectKeys(cardFields...)))},
		p.SelectKeys("watchHistory"),
	)
}
