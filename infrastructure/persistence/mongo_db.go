package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidtube/domain/pagination"
	"vidtube/domain/pipeline"
	"vidtube/domain/repository"
	"vidtube/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func NewMongoDb(uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return client, nil
}

// store is embedded by every repository: one database handle plus the
// deadline applied to each call.
type store struct {
	db      *mongo.Database
	timeout time.Duration
}

func newStore(db *mongo.Database, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return store{db: db, timeout: timeout}
}

func (s store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// mapErr turns driver sentinels into repository ones.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id bson.ObjectID) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, filter, update any) (*T, error) {
	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id bson.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func aggregateAll[T any](ctx context.Context, coll *mongo.Collection, p pipeline.Pipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, mongo.Pipeline(p.Compile()))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func aggregateOne[T any](ctx context.Context, coll *mongo.Collection, p pipeline.Pipeline) (*T, error) {
	items, err := aggregateAll[T](ctx, coll, p.Then(pipeline.Limit{N: 1}))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repository.ErrNotFound
	}
	return &items[0], nil
}

func aggregatePage[T any](ctx context.Context, coll *mongo.Collection, p pipeline.Pipeline, req pagination.Request) (pagination.Page[T], error) {
	results, err := aggregateAll[pipeline.FacetResult](ctx, coll, pipeline.Paginate(p, req))
	if err != nil {
		return pagination.Page[T]{}, err
	}
	if len(results) == 0 {
		return pagination.NewPage[T](nil, 0, req), nil
	}
	page, err := pipeline.DecodePage[T](results[0], req)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("decode %s page: %w", coll.Name(), err)
	}
	return page, nil
}
