package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/metrics"
)

type IStatsCache interface {
	// Get returns nil without error on a miss or when caching is disabled.
	Get(ctx context.Context, channel bson.ObjectID) (*dto.ChannelStats, error)
	Set(ctx context.Context, channel bson.ObjectID, stats *dto.ChannelStats) error
	Invalidate(ctx context.Context, channel bson.ObjectID) error
}

// StatsCache is a cache-aside store for channel dashboard totals.
// A nil client turns every call into a no-op.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) IStatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(channel bson.ObjectID) string {
	return "stats:" + channel.Hex()
}

func (c *StatsCache) Get(ctx context.Context, channel bson.ObjectID) (*dto.ChannelStats, error) {
	if c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, statsKey(channel)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookup("stats", false)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats dto.ChannelStats
	if err := json.Unmarshal(data, &stats); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Discarding unreadable stats cache entry")
		return nil, nil
	}
	metrics.CacheLookup("stats", true)
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, channel bson.ObjectID, stats *dto.ChannelStats) error {
	if c.client == nil || stats == nil {
		return nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(channel), data, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context, channel bson.ObjectID) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey(channel)).Err()
}
