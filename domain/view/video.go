package view

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	p "vidtube/domain/pipeline"
)

var sortableVideoFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"views":     true,
	"duration":  true,
	"title":     true,
}

func SortableVideoField(field string) bool {
	return sortableVideoFields[field]
}

type VideoQuery struct {
	Owner *bson.ObjectID
	// MatchIDs restricts results to text search hits. Nil means no search
	// stage at all; an empty slice matches nothing.
	MatchIDs []bson.ObjectID
	SortBy   string
	Desc     bool
}

// VideoList lists published videos with their owner collapsed.
func VideoList(q VideoQuery) p.Pipeline {
	conditions := []p.Condition{p.Eq("isPublished", true)}
	if q.Owner != nil {
		conditions = append(conditions, p.Eq("owner", *q.Owner))
	}
	if q.MatchIDs != nil {
		conditions = append(conditions, p.InIDs("_id", q.MatchIDs))
	}
	sortKey := p.Desc("createdAt")
	if SortableVideoField(q.SortBy) {
		sortKey = p.SortKey{Field: q.SortBy, Desc: q.Desc}
	}
	return join(
		stages(p.Match(conditions...), p.SortBy(sortKey)),
		owner("owner"),
		stages(p.SelectKeys(cardFields...)),
	)
}

// VideoDetail renders one video page for viewer (nil when anonymous).
func VideoDetail(id bson.ObjectID, viewer *bson.ObjectID) p.Pipeline {
	return join(
		stages(
			p.Match(p.Eq("_id", id)),
			p.Join{From: Users, LocalField: "owner", ForeignField: "_id", As: "owner", Pipeline: channelSummary(viewer)},
			p.Collapse{Field: "owner"},
		),
		likes("video", viewer),
		stages(p.SelectKeys(
			"videoFile", "thumbnail", "title", "description", "duration", "views",
			"isPublished", "owner", "likesCount", "isLiked", "createdAt",
		)),
	)
}

// ChannelVideos lists every video of a channel, published or not.
func ChannelVideos(channel bson.ObjectID) p.Pipeline {
	return join(
		stages(p.Match(p.Eq("owner", channel)), p.SortBy(p.Desc("createdAt"))),
		likes("video", nil),
		stages(p.SelectKeys(
			"videoFile", "thumbnail", "title", "description", "duration", "views",
			"isPublished", "likesCount", "createdAt", "updatedAt",
		)),
	)
}

// ChannelStats folds a channel into its totals, starting from the user row.
func ChannelStats(channel bson.ObjectID) p.Pipeline {
	return p.New(
		p.Match(p.Eq("_id", channel)),
		p.Join{From: Videos, LocalField: "_id", ForeignField: "owner", As: "videos",
			Pipeline: p.New(
				p.Join{From: Likes, LocalField: "_id", ForeignField: "video", As: "likes",
					Pipeline: p.New(p.SelectKeys("_id"))},
				p.Count("likesCount", "likes"),
				p.SelectKeys("views", "likesCount"),
			)},
		p.Join{From: Subscriptions, LocalField: "_id", ForeignField: "channel", As: "subscribers",
			Pipeline: p.New(p.SelectKeys("_id"))},
		p.Count("totalVideos", "videos"),
		p.Sum("totalViews", "videos", "views"),
		p.Sum("totalLikes", "videos", "likesCount"),
		p.Count("totalSubscribers", "subscribers"),
		p.Project{ExcludeID: true, Fields: p.Keep("totalVideos", "totalViews", "totalLikes", "totalSubscribers")},
	)
}
