package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/dto"
)

func TestStatsKey(t *testing.T) {
	id := bson.NewObjectID()
	assert.Equal(t, "stats:"+id.Hex(), statsKey(id))
}

func TestStatsCache_DisabledIsNoop(t *testing.T) {
	c := NewStatsCache(nil, 0)
	ctx := context.Background()
	id := bson.NewObjectID()

	got, err := c.Get(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.Set(ctx, id, &dto.ChannelStats{TotalVideos: 2}))
	assert.NoError(t, c.Invalidate(ctx, id))
}
