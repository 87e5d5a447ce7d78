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

type ITweetUsecase interface {
	Create(ctx context.Context, actor bson.ObjectID, req dto.ContentRequest) (*model.Tweet, error)
	ListByUser(ctx context.Context, userID string, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.TweetView], error)
	Update(ctx context.Context, actor bson.ObjectID, tweetID string, req dto.ContentRequest) (*model.Tweet, error)
	Delete(ctx context.Context, actor bson.ObjectID, tweetID string) error
}

type TweetUsecase struct {
	tweets repository.ITweet
	users  repository.IUser
}

func NewTweetUsecase(tweets repository.ITweet, users repository.IUser) ITweetUsecase {
	return &TweetUsecase{tweets: tweets, users: users}
}

func (u *TweetUsecase) Create(ctx context.Context, actor bson.ObjectID, req dto.ContentRequest) (*model.Tweet, error) {
	content, err := required(req.Content, "content")
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{Content: content, Owner: actor}
	if err := u.tweets.Create(ctx, tweet); err != nil {
		return nil, storeErr("tweet", err)
	}
	return tweet, nil
}

func (u *TweetUsecase) ListByUser(ctx context.Context, userID string, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.TweetView], error) {
	id, err := parseID(userID, "userId")
	if err != nil {
		return pagination.Page[dto.TweetView]{}, err
	}
	if _, err := u.users.GetByID(ctx, id); err != nil {
		return pagination.Page[dto.TweetView]{}, storeErr("user", err)
	}
	page, err := u.tweets.ListByOwner(ctx, id, viewer, req)
	if err != nil {
		return pagination.Page[dto.TweetView]{}, storeErr("tweets", err)
	}
	return page, nil
}

func (u *TweetUsecase) Update(ctx context.Context, actor bson.ObjectID, tweetID string, req dto.ContentRequest) (*model.Tweet, error) {
	id, err := parseID(tweetID, "tweetId")
	if err != nil {
		return nil, err
	}
	content, err := required(req.Content, "content")
	if err != nil {
		return nil, err
	}
	tweet, err := u.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("tweet", err)
	}
	if !owns(actor, tweet.Owner) {
		return nil, apperror.Permission("only the tweet owner can update it")
	}
	updated, err := u.tweets.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, storeErr("tweet", err)
	}
	return updated, nil
}

func (u *TweetUsecase) Delete(ctx context.Context, actor bson.ObjectID, tweetID string) error {
	id, err := parseID(tweetID, "tweetId")
	if err != nil {
		return err
	}
	tweet, err := u.tweets.GetByID(ctx, id)
	if err != nil {
		return storeErr("tweet", err)
	}
	if !owns(actor, tweet.Owner) {
		return apperror.Permission("only the tweet owner can delete it")
	}
	return storeErr("tweet", u.tweets.Delete(ctx, id))
}
