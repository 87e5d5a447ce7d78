package persistence

import (
	"context"
	"strings"
	"time"

	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/repository"
	"vidtube/domain/view"
	"vidtube/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UserRepository struct {
	store
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) repository.IUser {
	return &UserRepository{store: newStore(db, timeout)}
}

func (r *UserRepository) users() *mongo.Collection { return r.coll(view.Users) }

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	if user.WatchHistory == nil {
		user.WatchHistory = []bson.ObjectID{}
	}

	if _, err := r.users().InsertOne(ctx, user); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"username": user.Username,
		}).Error("mongo: create user failed")
		return mapErr(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findByID[model.User](ctx, r.users(), id)
}

// GetByUsernameOrEmail matches either identifier; empty ones are ignored.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	filter := identityFilter(username, email)
	if filter == nil {
		return nil, repository.ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user model.User
	if err := r.users().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func identityFilter(username, email string) bson.D {
	var or bson.A
	if u := strings.ToLower(strings.TrimSpace(username)); u != "" {
		or = append(or, bson.D{{Key: "username", Value: u}})
	}
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		or = append(or, bson.D{{Key: "email", Value: e}})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.D{{Key: "$or", Value: or}}
}

func (r *UserRepository) Update(ctx context.Context, id bson.ObjectID, update model.UserUpdate) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	set := setFields(
		field{"fullName", update.FullName},
		field{"email", lower(update.Email)},
		field{"avatar", update.Avatar},
		field{"coverImage", update.CoverImage},
		field{"password", update.Password},
	)
	return findOneAndUpdate[model.User](ctx, r.users(), bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
}

// SetRefreshToken stores token, or clears it when empty.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id bson.ObjectID, token string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "refreshToken", Value: token}}}}
	if token == "" {
		update = bson.D{{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: 1}}}}
	}
	res, err := r.users().UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddToWatchHistory(ctx context.Context, id, videoID bson.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.users().UpdateByID(ctx, id, bson.D{{Key: "$addToSet", Value: bson.D{{Key: "watchHistory", Value: videoID}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ChannelProfile(ctx context.Context, username string, viewer *bson.ObjectID) (*dto.ChannelProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateOne[dto.ChannelProfile](ctx, r.users(), view.ChannelProfile(strings.ToLower(username), viewer))
}

func (r *UserRepository) WatchHistory(ctx context.Context, id bson.ObjectID) ([]dto.VideoCard, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	history, err := aggregateOne[dto.WatchHistory](ctx, r.users(), view.WatchHistory(id))
	if err != nil {
		return nil, err
	}
	if history.WatchHistory == nil {
		return []dto.VideoCard{}, nil
	}
	return history.WatchHistory, nil
}
