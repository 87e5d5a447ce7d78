package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/infrastructure/cache"
	"vidtube/infrastructure/lock"
	"vidtube/infrastructure/metrics"
)

type ISubscriptionUsecase interface {
	Toggle(ctx context.Context, actor bson.ObjectID, channelID string) (*dto.SubscriptionToggle, error)
	Subscribers(ctx context.Context, channelID string, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.SubscriberView], error)
	SubscribedChannels(ctx context.Context, subscriberID string, req pagination.Request) (pagination.Page[dto.SubscribedChannelView], error)
}

type SubscriptionUsecase struct {
	subscriptions repository.ISubscription
	users         repository.IUser
	locker        lock.ILocker
	stats         cache.IStatsCache
}

func NewSubscriptionUsecase(subscriptions repository.ISubscription, users repository.IUser,
	locker lock.ILocker, stats cache.IStatsCache,
) ISubscriptionUsecase {
	return &SubscriptionUsecase{subscriptions: subscriptions, users: users, locker: locker, stats: stats}
}

func (u *SubscriptionUsecase) Toggle(ctx context.Context, actor bson.ObjectID, channelID string) (*dto.SubscriptionToggle, error) {
	channel, err := parseID(channelID, "channelId")
	if err != nil {
		return nil, err
	}
	if _, err := u.users.GetByID(ctx, channel); err != nil {
		return nil, storeErr("channel", err)
	}

	subscribed, err := toggleMembership(ctx, u.locker, lock.Key("subscription", actor.Hex(), channel.Hex()),
		func(ctx context.Context) (bool, error) { return u.subscriptions.Delete(ctx, actor, channel) },
		func(ctx context.Context) error {
			at := now()
			return u.subscriptions.Insert(ctx, &model.Subscription{
				Subscriber: actor, Channel: channel, CreatedAt: at, UpdatedAt: at,
			})
		},
	)
	if err != nil {
		return nil, err
	}

	metrics.Toggle("subscription", subscribed)
	invalidateStats(ctx, u.stats, channel)
	return &dto.SubscriptionToggle{Subscribed: subscribed}, nil
}

func (u *SubscriptionUsecase) Subscribers(ctx context.Context, channelID string, viewer *bson.ObjectID, req pagination.Request) (pagination.Page[dto.SubscriberView], error) {
	channel, err := parseID(channelID, "channelId")
	if err != nil {
		return pagination.Page[dto.SubscriberView]{}, err
	}
	if _, err := u.users.GetByID(ctx, channel); err != nil {
		return pagination.Page[dto.SubscriberView]{}, storeErr("channel", err)
	}
	page, err := u.subscriptions.Subscribers(ctx, channel, viewer, req)
	if err != nil {
		return pagination.Page[dto.SubscriberView]{}, storeErr("subscribers", err)
	}
	return page, nil
}

func (u *SubscriptionUsecase) SubscribedChannels(ctx context.Context, subscriberID string, req pagination.Request) (pagination.Page[dto.SubscribedChannelView], error) {
	subscriber, err := parseID(subscriberID, "subscriberId")
	if err != nil {
		return pagination.Page[dto.SubscribedChannelView]{}, err
	}
	if _, err := u.users.GetByID(ctx, subscriber); err != nil {
		return pagination.Page[dto.SubscribedChannelView]{}, storeErr("user", err)
	}
	page, err := u.subscriptions.SubscribedChannels(ctx, subscriber, req)
	if err != nil {
		return pagination.Page[dto.SubscribedChannelView]{}, storeErr("subscriptions", err)
	}
	return page, nil
}
