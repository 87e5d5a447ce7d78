package view

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	p "vidtube/domain/pipeline"
)

// UserPlaylists renders playlist cards. The thumbnail comes from the first
// member video in identity order.
func UserPlaylists(user bson.ObjectID) p.Pipeline {
	return p.New(
		p.Match(p.Eq("owner", user)),
		p.Join{From: Videos, LocalField: "videos", ForeignField: "_id", As: "videos",
			Pipeline: p.New(p.SortBy(p.Asc("_id")), p.SelectKeys("views", "thumbnail"))},
		p.Count("totalVideos", "videos"),
		p.Sum("totalViews", "videos", "views"),
		p.First("thumbnail", "videos", "thumbnail"),
		p.SortBy(p.Desc("createdAt")),
		p.SelectKeys("name", "description", "owner", "totalVideos", "totalViews", "thumbnail", "createdAt", "updatedAt"),
	)
}

func PlaylistDetail(id bson.ObjectID) p.Pipeline {
	return join(
		stages(
			p.Match(p.Eq("_id", id)),
			p.Join{From: Videos, LocalField: "videos", ForeignField: "_id", As: "videos",
				Pipeline: join(
					stages(p.Match(p.Eq("isPublished", true)), p.SortBy(p.Desc("createdAt"))),
					owner("owner"),
					stages(p.SelectKeys("thumbnail", "title", "description", "duration", "views", "isPublished", "owner", "createdAt")),
				)},
			p.Count("totalVideos", "videos"),
			p.Sum("totalViews", "videos", "views"),
		),
		owner("owner"),
		stages(p.SelectKeys("name", "description", "owner", "videos", "totalVideos", "totalViews", "createdAt", "updatedAt")),
	)
}
