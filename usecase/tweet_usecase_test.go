package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/dto"
	"vidtube/domain/model"
	"vidtube/domain/pagination"
	"vidtube/domain/repository"
	"vidtube/usecase"
)

func TestTweetUsecase_OwnershipGate(t *testing.T) {
	tweets := new(MockTweetRepository)
	uc := usecase.NewTweetUsecase(tweets, new(MockUserRepository))
	tweetID := bson.NewObjectID()
	tweets.On("GetByID", mock.Anything, tweetID).
		Return(&model.Tweet{ID: tweetID, Owner: bson.NewObjectID()}, nil).Once()

	err := uc.Delete(context.Background(), bson.NewObjectID(), tweetID.Hex())

	assert.True(t, apperror.Is(err, apperror.KindPermission))
	tweets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTweetUsecase_Create(t *testing.T) {
	tweets := new(MockTweetRepository)
	uc := usecase.NewTweetUsecase(tweets, new(MockUserRepository))
	actor := bson.NewObjectID()
	tweets.On("Create", mock.Anything, mock.MatchedBy(func(tw *model.Tweet) bool {
		return tw.Owner == actor && tw.Content == "hello"
	})).Return(nil).Once()

	tweet, err := uc.Create(context.Background(), actor, dto.ContentRequest{Content: "hello"})

	require.NoError(t, err)
	assert.Equal(t, actor, tweet.Owner)
}

func TestTweetUsecase_UpdateByOwner(t *testing.T) {
	tweets := new(MockTweetRepository)
	uc := usecase.NewTweetUsecase(tweets, new(MockUserRepository))
	owner := bson.NewObjectID()
	tweetID := bson.NewObjectID()
	tweets.On("GetByID", mock.Anything, tweetID).Return(&model.Tweet{ID: tweetID, Owner: owner}, nil).Once()
	tweets.On("UpdateContent", mock.Anything, tweetID, "edited").
		Return(&model.Tweet{ID: tweetID, Owner: owner, Content: "edited"}, nil).Once()

	updated, err := uc.Update(context.Background(), owner, tweetID.Hex(), dto.ContentRequest{Content: " edited "})

	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	tweets.AssertExpectations(t)
}

func TestTweetUsecase_ListByUnknownUser(t *testing.T) {
	tweets := new(MockTweetRepository)
	users := new(MockUserRepository)
	uc := usecase.NewTweetUsecase(tweets, users)
	userID := bson.NewObjectID()
	users.On("GetByID", mock.Anything, userID).Return(nil, repository.ErrNotFound).Once()

	_, err := uc.ListByUser(context.Background(), userID.Hex(), nil, pagination.New(1, 10))

	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	tweets.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
