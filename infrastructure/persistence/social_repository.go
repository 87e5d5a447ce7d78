package persistence

import (
	"context"
	"time"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/domain/view"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type CommentRepository struct {
	store
}

func NewCommentRepository(db *mongo.Database, timeout time.Duration) repository.IComment {
	return &CommentRepository{store: newStore(db, timeout)}
}

func (r *CommentRepository) comments() *mongo.Collection { return r.coll(view.Comments) }

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	comment.CreatedAt = now()
	comment.UpdatedAt = comment.CreatedAt
	_, err := r.comments().InsertOne(ctx, comment)
	return mapErr(err)
}

func (r *CommentRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findByID[model.Comment](ctx, r.comments(), id)
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findOneAndUpdate[model.Comment](ctx, r.comments(), bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: setFields(field{"content", &content})}})
}

func (r *CommentRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, r.comments(), id)
}

func (r *CommentRepository) ListByVideo(ctx context.Context, video bson.ObjectID, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.CommentView], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.CommentView](ctx, r.comments(), view.VideoComments(video, viewer), req)
}

type TweetRepository struct {
	store
}

func NewTweetRepository(db *mongo.Database, timeout time.Duration) repository.ITweet {
	return &TweetRepository{store: newStore(db, timeout)}
}

func (r *TweetRepository) tweets() *mongo.Collection { return r.coll(view.Tweets) }

func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if tweet.ID.IsZero() {
		tweet.ID = bson.NewObjectID()
	}
	tweet.CreatedAt = now()
	tweet.UpdatedAt = tweet.CreatedAt
	_, err := r.tweets().InsertOne(ctx, tweet)
	return mapErr(err)
}

func (r *TweetRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Tweet, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findByID[model.Tweet](ctx, r.tweets(), id)
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Tweet, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findOneAndUpdate[model.Tweet](ctx, r.tweets(), bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: setFields(field{"content", &content})}})
}

func (r *TweetRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, r.tweets(), id)
}

func (r *TweetRepository) ListByOwner(ctx context.Context, owner bson.ObjectID, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.TweetView], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.TweetView](ctx, r.tweets(), view.UserTweets(owner, viewer), req)
}

type LikeRepository struct {
	store
}

func NewLikeRepository(db *mongo.Database, timeout time.Duration) repository.ILike {
	return &LikeRepository{store: newStore(db, timeout)}
}

func (r *LikeRepository) likes() *mongo.Collection { return r.coll(view.Likes) }

func (r *LikeRepository) Delete(ctx context.Context, target model.LikeTarget, likedBy bson.ObjectID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.likes().DeleteOne(ctx, bson.D{
		{Key: target.Field(), Value: target.ID},
		{Key: "likedBy", Value: likedBy},
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *LikeRepository) Insert(ctx context.Context, like *model.Like) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if like.ID.IsZero() {
		like.ID = bson.NewObjectID()
	}
	_, err := r.likes().InsertOne(ctx, like)
	return mapErr(err)
}

func (r *LikeRepository) LikedVideos(ctx context.Context, likedBy bson.ObjectID, req pagination.Request) (pagination.Page[dto.LikedVideo], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.LikedVideo](ctx, r.likes(), view.LikedVideos(likedBy), req)
}

type SubscriptionRepository struct {
	store
}

func NewSubscriptionRepository(db *mongo.Database, timeout time.Duration) repository.ISubscription {
	return &SubscriptionRepository{store: newStore(db, timeout)}
}

func (r *SubscriptionRepository) subscriptions() *mongo.Collection {
	return r.coll(view.Subscriptions)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriber, channel bson.ObjectID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.subscriptions().DeleteOne(ctx, bson.D{
		{Key: "subscriber", Value: subscriber},
		{Key: "channel", Value: channel},
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *SubscriptionRepository) Insert(ctx context.Context, subscription *model.Subscription) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if subscription.ID.IsZero() {
		subscription.ID = bson.NewObjectID()
	}
	_, err := r.subscriptions().InsertOne(ctx, subscription)
	return mapErr(err)
}

func (r *SubscriptionRepository) Subscribers(ctx context.Context, channel bson.ObjectID, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.SubscriberView], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.SubscriberView](ctx, r.subscriptions(), view.ChannelSubscribers(channel, viewer), req)
}

func (r *SubscriptionRepository) SubscribedChannels(ctx context.Context, subscriber bson.ObjectID, req pagination.Request) (pagination.Page[dto.SubscribedChannelView], error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregatePage[dto.SubscribedChannelView](ctx, r.subscriptions(), view.SubscribedChannels(subscriber), req)
}
