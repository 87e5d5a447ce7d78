package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Video struct {
	ID          bson.ObjectID `json:"_id"         bson:"_id,omitempty"`
	VideoFile   string        `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string        `json:"thumbnail"   bson:"thumbnail"`
	Title       string        `json:"title"       bson:"title"`
	Description string        `json:"description" bson:"description"`
	Duration    float64       `json:"duration"    bson:"duration"`
	Views       int64         `json:"views"       bson:"views"`
	IsPublished bool          `json:"isPublished" bson:"isPublished"`
	Owner       bson.ObjectID `json:"owner"       bson:"owner"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"   bson:"updatedAt"`
}

type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
}
