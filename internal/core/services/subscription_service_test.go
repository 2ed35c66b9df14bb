package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	apperrors "vidtube/pkg/errors"
)

func TestSubscriptionService_Toggle_SelfSubscribeRejected(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	users := new(mockUserRepo)
	svc := NewSubscriptionService(subs, users)

	userID := primitive.NewObjectID()

	_, err := svc.ToggleSubscription(context.Background(), userID.Hex(), userID)
	assertCode(t, err, apperrors.ErrCodeInvalidArgument)

	// The rejection happens before any lookup or write.
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	subs.AssertNotCalled(t, "DeleteWhere", mock.Anything, mock.Anything)
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscriptionService_Toggle_AddsWhenAbsent(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	users := new(mockUserRepo)
	svc := NewSubscriptionService(subs, users)

	channel := primitive.NewObjectID()
	subscriber := primitive.NewObjectID()
	users.On("FindByID", mock.Anything, channel).Return(&domain.User{ID: channel}, nil)
	subs.On("DeleteWhere", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	subs.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Subscription) bool {
		return s.Channel == channel && s.Subscriber == subscriber
	})).Return(&domain.Subscription{Channel: channel, Subscriber: subscriber}, nil)

	outcome, err := svc.ToggleSubscription(context.Background(), channel.Hex(), subscriber)
	assert.NoError(t, err)
	assert.Equal(t, domain.ToggleAdded, outcome)
}

func TestSubscriptionService_Toggle_RemovesWhenPresent(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	users := new(mockUserRepo)
	svc := NewSubscriptionService(subs, users)

	channel := primitive.NewObjectID()
	subscriber := primitive.NewObjectID()
	users.On("FindByID", mock.Anything, channel).Return(&domain.User{ID: channel}, nil)
	subs.On("DeleteWhere", mock.Anything, mock.Anything).Return(&domain.Subscription{
		Channel:    channel,
		Subscriber: subscriber,
	}, nil)

	outcome, err := svc.ToggleSubscription(context.Background(), channel.Hex(), subscriber)
	assert.NoError(t, err)
	assert.Equal(t, domain.ToggleRemoved, outcome)
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscriptionService_Toggle_UnknownChannel(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	users := new(mockUserRepo)
	svc := NewSubscriptionService(subs, users)

	channel := primitive.NewObjectID()
	users.On("FindByID", mock.Anything, channel).Return(nil, domain.ErrNotFound)

	_, err := svc.ToggleSubscription(context.Background(), channel.Hex(), primitive.NewObjectID())
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestSubscriptionService_GetChannelSubscribers(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	svc := NewSubscriptionService(subs, new(mockUserRepo))

	channel := primitive.NewObjectID()
	subs.On("Aggregate", mock.Anything, mock.Anything, sumTarget()).Run(fillSum(1)).Return(nil)
	subs.On("Aggregate", mock.Anything, mock.Anything, mock.MatchedBy(func(out interface{}) bool {
		_, ok := out.(*[]profileRow)
		return ok
	})).Run(func(args mock.Arguments) {
		out := args.Get(2).(*[]profileRow)
		*out = append(*out, profileRow{Profile: domain.PublicProfile{Username: "bob"}})
	}).Return(nil)

	page, err := svc.GetChannelSubscribers(context.Background(), channel.Hex(), pageRequest(1, 10))
	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].Username)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestSubscriptionService_GetSubscribedChannels_MalformedID(t *testing.T) {
	svc := NewSubscriptionService(new(mockSubscriptionRepo), new(mockUserRepo))

	_, err := svc.GetSubscribedChannels(context.Background(), "oops", pageRequest(1, 10))
	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
}
