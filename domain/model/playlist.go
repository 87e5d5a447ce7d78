package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Playlist struct {
	ID          bson.ObjectID   `json:"_id"         bson:"_id,omitempty"`
	Name        string          `json:"name"        bson:"name"`
	Description string          `json:"description" bson:"description"`
	Videos      []bson.ObjectID `json:"videos"      bson:"videos"`
	Owner       bson.ObjectID   `json:"owner"       bson:"owner"`
	CreatedAt   time.Time       `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"   bson:"updatedAt"`
}

func (p *Playlist) Contains(videoID bson.ObjectID) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

type PlaylistUpdate struct {
	Name        *string
	Description *string
}
