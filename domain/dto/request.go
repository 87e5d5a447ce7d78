package dto

import (
	"vidtube/infrastructure/upload"
)

type VideoListQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Query    string `form:"query"`
	UserID   string `form:"userId"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
}

type PublishVideoRequest struct {
	Title       string       `form:"title"       binding:"required"`
	Description string       `form:"description" binding:"required"`
	VideoFile   *upload.File `form:"-"`
	Thumbnail   *upload.File `form:"-"`
}

type UpdateVideoRequest struct {
	Title       *string      `form:"title"`
	Description *string      `form:"description"`
	Thumbnail   *upload.File `form:"-"`
}

type ContentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type RegisterRequest struct {
	FullName   string       `form:"fullName" binding:"required"`
	Email      string       `form:"email"    binding:"required,email"`
	Username   string       `form:"username" binding:"required"`
	Password   string       `form:"password" binding:"required"`
	Avatar     *upload.File `form:"-"`
	CoverImage *upload.File `form:"-"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UpdateAccountRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}
