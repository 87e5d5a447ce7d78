package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"vidtube/domain/repository"
	"vidtube/domain/view"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapErr(dup), repository.ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other))
}

func TestIdentityFilter(t *testing.T) {
	assert.Nil(t, identityFilter("", "  "))

	filter := identityFilter("Alice", "")
	require.Len(t, filter, 1)
	assert.Equal(t, "$or", filter[0].Key)
	assert.Equal(t, bson.A{bson.D{{Key: "username", Value: "alice"}}}, filter[0].Value)

	filter = identityFilter("alice", "Alice@Example.com")
	assert.Len(t, filter[0].Value, 2)
}

func TestSetFields_SkipsNilAndStampsUpdatedAt(t *testing.T) {
	title := "new title"
	set := setFields(field{"title", &title}, field{"description", nil})

	require.Len(t, set, 2)
	assert.Equal(t, bson.E{Key: "title", Value: "new title"}, set[0])
	assert.Equal(t, "updatedAt", set[1].Key)
}

func TestLower(t *testing.T) {
	assert.Nil(t, lower(nil))
	s := "Bob@Mail.COM"
	assert.Equal(t, "bob@mail.com", *lower(&s))
}

func TestIndexes_UniqueMembership(t *testing.T) {
	indexes := Indexes()

	likes := indexes[view.Likes]
	require.Len(t, likes, 3)
	for i, target := range []string{"video", "comment", "tweet"} {
		assert.Equal(t, bson.D{{Key: "likedBy", Value: 1}, {Key: target, Value: 1}}, likes[i].Keys)
		assert.NotNil(t, likes[i].Options)
	}

	subs := indexes[view.Subscriptions]
	require.NotEmpty(t, subs)
	assert.Equal(t, bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, subs[0].Keys)

	assert.Len(t, indexes[view.Users], 2)
}
