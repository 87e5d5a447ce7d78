package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/model"
)

type UserSummary struct {
	ID       bson.ObjectID `json:"_id"      bson:"_id"`
	Username string        `json:"username" bson:"username"`
	FullName string        `json:"fullName" bson:"fullName,omitempty"`
	Avatar   string        `json:"avatar"   bson:"avatar"`
}

// ChannelSummary is a user seen as a channel, with viewer-relative state.
type ChannelSummary struct {
	UserSummary      `bson:",inline"`
	SubscribersCount int64 `json:"subscribersCount" bson:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"     bson:"isSubscribed"`
}

type VideoCard struct {
	ID          bson.ObjectID `json:"_id"         bson:"_id"`
	VideoFile   string        `json:"videoFile,omitempty" bson:"videoFile,omitempty"`
	Thumbnail   string        `json:"thumbnail"   bson:"thumbnail"`
	Title       string        `json:"title"       bson:"title"`
	Description string        `json:"description" bson:"description"`
	Duration    float64       `json:"duration"    bson:"duration"`
	Views       int64         `json:"views"       bson:"views"`
	IsPublished bool          `json:"isPublished" bson:"isPublished"`
	Owner       *UserSummary  `json:"owner"       bson:"owner,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"createdAt"`
}

type VideoDetail struct {
	ID          bson.ObjectID   `json:"_id"         bson:"_id"`
	VideoFile   string          `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string          `json:"thumbnail"   bson:"thumbnail"`
	Title       string          `json:"title"       bson:"title"`
	Description string          `json:"description" bson:"description"`
	Duration    float64         `json:"duration"    bson:"duration"`
	Views       int64           `json:"views"       bson:"views"`
	IsPublished bool            `json:"isPublished" bson:"isPublished"`
	Owner       *ChannelSummary `json:"owner"       bson:"owner,omitempty"`
	LikesCount  int64           `json:"likesCount"  bson:"likesCount"`
	IsLiked     bool            `json:"isLiked"     bson:"isLiked"`
	CreatedAt   time.Time       `json:"createdAt"   bson:"createdAt"`
}

type CommentView struct {
	ID         bson.ObjectID `json:"_id"        bson:"_id"`
	Content    string        `json:"content"    bson:"content"`
	Video      bson.ObjectID `json:"video"      bson:"video"`
	Owner      *UserSummary  `json:"owner"      bson:"owner,omitempty"`
	LikesCount int64         `json:"likesCount" bson:"likesCount"`
	IsLiked    bool          `json:"isLiked"    bson:"isLiked"`
	CreatedAt  time.Time     `json:"createdAt"  bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"  bson:"updatedAt"`
}

type TweetView struct {
	ID         bson.ObjectID `json:"_id"        bson:"_id"`
	Content    string        `json:"content"    bson:"content"`
	Owner      *UserSummary  `json:"owner"      bson:"owner,omitempty"`
	LikesCount int64         `json:"likesCount" bson:"likesCount"`
	IsLiked    bool          `json:"isLiked"    bson:"isLiked"`
	CreatedAt  time.Time     `json:"createdAt"  bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"  bson:"updatedAt"`
}

type LikedVideo struct {
	VideoCard `bson:",inline"`
	LikedAt   time.Time `json:"likedAt" bson:"likedAt"`
}

type SubscriberView struct {
	ID           bson.ObjectID   `json:"_id"          bson:"_id"`
	Subscriber   *ChannelSummary `json:"subscriber"   bson:"subscriber,omitempty"`
	SubscribedAt time.Time       `json:"subscribedAt" bson:"subscribedAt"`
}

type SubscribedChannelView struct {
	ID           bson.ObjectID   `json:"_id"          bson:"_id"`
	Channel      *ChannelSummary `json:"channel"      bson:"channel,omitempty"`
	SubscribedAt time.Time       `json:"subscribedAt" bson:"subscribedAt"`
}

type PlaylistCard struct {
	ID          bson.ObjectID `json:"_id"         bson:"_id"`
	Name        string        `json:"name"        bson:"name"`
	Description string        `json:"description" bson:"description"`
	Owner       bson.ObjectID `json:"owner"       bson:"owner"`
	TotalVideos int64         `json:"totalVideos" bson:"totalVideos"`
	TotalViews  int64         `json:"totalViews"  bson:"totalViews"`
	Thumbnail   string        `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"   bson:"updatedAt"`
}

type PlaylistDetail struct {
	ID          bson.ObjectID `json:"_id"         bson:"_id"`
	Name        string        `json:"name"        bson:"name"`
	Description string        `json:"description" bson:"description"`
	Owner       *UserSummary  `json:"owner"       bson:"owner,omitempty"`
	Videos      []VideoCard   `json:"videos"      bson:"videos"`
	TotalVideos int64         `json:"totalVideos" bson:"totalVideos"`
	TotalViews  int64         `json:"totalViews"  bson:"totalViews"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"   bson:"updatedAt"`
}

type ChannelProfile struct {
	ID                        bson.ObjectID `json:"_id"                       bson:"_id"`
	FullName                  string        `json:"fullName"                  bson:"fullName"`
	Username                  string        `json:"username"                  bson:"username"`
	Email                     string        `json:"email"                     bson:"email"`
	Avatar                    string        `json:"avatar"                    bson:"avatar"`
	CoverImage                string        `json:"coverImage"                bson:"coverImage,omitempty"`
	SubscribersCount          int64         `json:"subscribersCount"          bson:"subscribersCount"`
	ChannelsSubscribedToCount int64         `json:"channelsSubscribedToCount" bson:"channelsSubscribedToCount"`
	IsSubscribed              bool          `json:"isSubscribed"              bson:"isSubscribed"`
	CreatedAt                 time.Time     `json:"createdAt"                 bson:"createdAt"`
}

type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"      bson:"totalVideos"`
	TotalViews       int64 `json:"totalViews"       bson:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"       bson:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers" bson:"totalSubscribers"`
}

type ChannelVideo struct {
	ID          bson.ObjectID `json:"_id"         bson:"_id"`
	VideoFile   string        `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string        `json:"thumbnail"   bson:"thumbnail"`
	Title       string        `json:"title"       bson:"title"`
	Description string        `json:"description" bson:"description"`
	Duration    float64       `json:"duration"    bson:"duration"`
	Views       int64         `json:"views"       bson:"views"`
	IsPublished bool          `json:"isPublished" bson:"isPublished"`
	LikesCount  int64         `json:"likesCount"  bson:"likesCount"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"   bson:"updatedAt"`
}

type WatchHistory struct {
	WatchHistory []VideoCard `json:"watchHistory" bson:"watchHistory"`
}

// AuthResult is returned by login and token refresh.
type AuthResult struct {
	User         *model.User `json:"user,omitempty"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}
