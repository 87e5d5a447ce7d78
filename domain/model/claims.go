package model

import (
	"github.com/golang-jwt/jwt"
)

// UserClaims is the access token payload. Subject holds the user id hex.
type UserClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	jwt.StandardClaims
}

type MediaKind string

const (
	MediaVideo     MediaKind = "video"
	MediaThumbnail MediaKind = "thumbnail"
	MediaAvatar    MediaKind = "avatar"
	MediaCover     MediaKind = "cover"
)

// Media is what the blob store reports back for a stored object.
type Media struct {
	URL      string
	Key      string
	Size     int64
	Duration float64
}
