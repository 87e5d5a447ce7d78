package persistence

import (
	"context"
	"fmt"

	"vidtube/domain/view"
	"vidtube/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func uniqueLikeIndex(target string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "likedBy", Value: 1}, {Key: target, Value: 1}},
		Options: options.Index().
			SetName("likes_" + target + "_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: target, Value: bson.D{{Key: "$type", Value: "objectId"}}}}),
	}
}

// Indexes lists the indexes each collection needs. The unique ones keep
// membership rows at most one per (actor, target) even under concurrent toggles.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		view.Users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("users_username_unique").SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("users_email_unique").SetUnique(true)},
		},
		view.Videos: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		view.Comments: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		view.Tweets: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		view.Likes: {
			uniqueLikeIndex("video"),
			uniqueLikeIndex("comment"),
			uniqueLikeIndex("tweet"),
		},
		view.Subscriptions: {
			{
				Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
				Options: options.Index().SetName("subscriptions_pair_unique").SetUnique(true),
			},
			{Keys: bson.D{{Key: "channel", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		view.Playlists: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range Indexes() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", collection, err)
		}
		logger.GetLogger().WithFields(map[string]interface{}{
			"collection": collection,
			"indexes":    names,
		}).Debug("Indexes ensured")
	}
	return nil
}
