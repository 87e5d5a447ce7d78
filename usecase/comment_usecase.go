package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
)

type ICommentUsecase interface {
	List(ctx context.Context, videoID string, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.CommentView], error)
	Add(ctx context.Context, actor bson.ObjectID, videoID string, req dto.ContentRequest) (*model.Comment, error)
	Update(ctx context.Context, actor bson.ObjectID, commentID string, req dto.ContentRequest) (*model.Comment, error)
	Delete(ctx context.Context, actor bson.ObjectID, commentID string) error
}

type CommentUsecase struct {
	comments repository.IComment
	videos   repository.IVideo
}

func NewCommentUsecase(comments repository.IComment, videos repository.IVideo) ICommentUsecase {
	return &CommentUsecase{comments: comments, videos: videos}
}

func (u *CommentUsecase) List(ctx context.Context, videoID string, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.CommentView], error) {
	id, err := parseID(videoID, "videoId")
	if err != nil {
		return pagination.Page[dto.CommentView]{}, err
	}
	if _, err := u.videos.GetByID(ctx, id); err != nil {
		return pagination.Page[dto.CommentView]{}, storeErr("video", err)
	}
	page, err := u.comments.ListByVideo(ctx, id, viewer, req)
	if err != nil {
		return pagination.Page[dto.CommentView]{}, storeErr("comments", err)
	}
	return page, nil
}

func (u *CommentUsecase) Add(ctx context.Context, actor bson.ObjectID, videoID string, req dto.ContentRequest) (*model.Comment, error) {
	id, err := parseID(videoID, "videoId")
	if err != nil {
		return nil, err
	}
	content, err := required(req.Content, "content")
	if err != nil {
		return nil, err
	}
	if _, err := u.videos.GetByID(ctx, id); err != nil {
		return nil, storeErr("video", err)
	}

	comment := &model.Comment{Content: content, Video: id, Owner: actor}
	if err := u.comments.Create(ctx, comment); err != nil {
		return nil, storeErr("comment", err)
	}
	return comment, nil
}

func (u *CommentUsecase) Update(ctx context.Context, actor bson.ObjectID, commentID string, req dto.ContentRequest) (*model.Comment, error) {
	id, err := parseID(commentID, "commentId")
	if err != nil {
		return nil, err
	}
	content, err := required(req.Content, "content")
	if err != nil {
		return nil, err
	}
	comment, err := u.comments.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("comment", err)
	}
	if !owns(actor, comment.Owner) {
		return nil, apperror.Permission("only the comment owner can edit it")
	}
	updated, err := u.comments.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, storeErr("comment", err)
	}
	return updated, nil
}

func (u *CommentUsecase) Delete(ctx context.Context, actor bson.ObjectID, commentID string) error {
	id, err := parseID(commentID, "commentId")
	if err != nil {
		return err
	}
	comment, err := u.comments.GetByID(ctx, id)
	if err != nil {
		return storeErr("comment", err)
	}
	if !owns(actor, comment.Owner) {
		return apperror.Permission("only the comment owner can delete it")
	}
	return storeErr("comment", u.comments.Delete(ctx, id))
}
