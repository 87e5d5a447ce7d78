package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// LikeTarget names the single content entity a Like points at.
type LikeTarget struct {
	Kind TargetKind
	ID   bson.ObjectID
}

func (t LikeTarget) Field() string { return string(t.Kind) }

// Like is a polymorphic membership row: exactly one of Video, Comment or
// Tweet is set.
type Like struct {
	ID        bson.ObjectID  `json:"_id"               bson:"_id,omitempty"`
	Video     *bson.ObjectID `json:"video,omitempty"   bson:"video,omitempty"`
	Comment   *bson.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Tweet     *bson.ObjectID `json:"tweet,omitempty"   bson:"tweet,omitempty"`
	LikedBy   bson.ObjectID  `json:"likedBy"           bson:"likedBy"`
	CreatedAt time.Time      `json:"createdAt"         bson:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"         bson:"updatedAt"`
}

func NewLike(target LikeTarget, likedBy bson.ObjectID, now time.Time) *Like {
	like := &Like{LikedBy: likedBy, CreatedAt: now, UpdatedAt: now}
	id := target.ID
	switch target.Kind {
	case TargetVideo:
		like.Video = &id
	case TargetComment:
		like.Comment = &id
	case TargetTweet:
		like.Tweet = &id
	}
	return like
}

type Subscription struct {
	ID         bson.ObjectID `json:"_id"        bson:"_id,omitempty"`
	Subscriber bson.ObjectID `json:"subscriber" bson:"subscriber"`
	Channel    bson.ObjectID `json:"channel"    bson:"channel"`
	CreatedAt  time.Time     `json:"createdAt"  bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"  bson:"updatedAt"`
}
