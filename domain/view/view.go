// Package view holds the named read-side pipelines. Every function is pure:
// it only describes stages, execution belongs to the persistence layer.
package view

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	p "vidtube/domain/pipeline"
)

const (
	Users         = "users"
	Videos        = "videos"
	Comments      = "comments"
	Tweets        = "tweets"
	Likes         = "likes"
	Subscriptions = "subscriptions"
	Playlists     = "playlists"
)

var (
	cardFields    = []string{"videoFile", "thumbnail", "title", "description", "duration", "views", "isPublished", "owner", "createdAt"}
	summaryFields = []string{"username", "fullName", "avatar"}
)

// owner joins users on local and collapses the match into a public summary.
func owner(local string, fields ...string) []p.Stage {
	if len(fields) == 0 {
		fields = summaryFields
	}
	return []p.Stage{
		p.Join{From: Users, LocalField: local, ForeignField: "_id", As: local,
			Pipeline: p.New(p.SelectKeys(fields...))},
		p.Collapse{Field: local},
	}
}

// likes attaches like rows of one target kind and derives likesCount and isLiked.
func likes(target string, viewer *bson.ObjectID) []p.Stage {
	return []p.Stage{
		p.Join{From: Likes, LocalField: "_id", ForeignField: target, As: "likes",
			Pipeline: p.New(p.SelectKeys("likedBy"))},
		p.Count("likesCount", "likes"),
		p.Membership("isLiked", "likes", "likedBy", viewer),
	}
}

// subscribers attaches the channel's subscription rows as "subscribers".
func subscribers(viewer *bson.ObjectID) []p.Stage {
	return []p.Stage{
		p.Join{From: Subscriptions, LocalField: "_id", ForeignField: "channel", As: "subscribers",
			Pipeline: p.New(p.SelectKeys("subscriber"))},
		p.Count("subscribersCount", "subscribers"),
		p.Membership("isSubscribed", "subscribers", "subscriber", viewer),
	}
}

func channelSummary(viewer *bson.ObjectID) p.Pipeline {
	return p.New(subscribers(viewer)...).Then(
		p.SelectKeys("username", "fullName", "avatar", "subscribersCount", "isSubscribed"),
	)
}

func join(groups ...[]p.Stage) p.Pipeline {
	var out p.Pipeline
	for _, g := range groups {
		out = out.Then(g...)
	}
	return out
}

func stages(s ...p.Stage) []p.Stage { return s }
