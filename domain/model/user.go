package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID   `json:"_id"          bson:"_id,omitempty"`
	Username     string          `json:"username"     bson:"username"`
	Email        string          `json:"email"        bson:"email"`
	FullName     string          `json:"fullName"     bson:"fullName"`
	Avatar       string          `json:"avatar"       bson:"avatar"`
	CoverImage   string          `json:"coverImage"   bson:"coverImage,omitempty"`
	WatchHistory []bson.ObjectID `json:"watchHistory" bson:"watchHistory"`
	Password     string          `json:"-"            bson:"password"`
	RefreshToken string          `json:"-"            bson:"refreshToken,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"    bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"    bson:"updatedAt"`
}

// UserUpdate carries the profile fields an account update may change.
// Nil fields are left untouched.
type UserUpdate struct {
	FullName   *string
	Email      *string
	Avatar     *string
	CoverImage *string
	Password   *string
}
