package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
	apperrors "vidtube/pkg/errors"
)

type SubscriptionService interface {
	ToggleSubscription(ctx context.Context, channelID string, subscriber primitive.ObjectID) (domain.ToggleOutcome, error)
	GetChannelSubscribers(ctx context.Context, channelID string, page query.PageRequest) (*query.Page[domain.PublicProfile], error)
	GetSubscribedChannels(ctx context.Context, subscriberID string, page query.PageRequest) (*query.Page[domain.PublicProfile], error)
}

type subscriptionService struct {
	subscriptions ports.SubscriptionRepository
	users         ports.UserRepository
}

func NewSubscriptionService(subscriptions ports.SubscriptionRepository, users ports.UserRepository) SubscriptionService {
	return &subscriptionService{
		subscriptions: subscriptions,
		users:         users,
	}
}

func (s *subscriptionService) ToggleSubscription(ctx context.Context, channelID string, subscriber primitive.ObjectID) (domain.ToggleOutcome, error) {
	channel, err := parseID(channelID, "channel ID")
	if err != nil {
		return "", err
	}
	// Reject before touching storage so a self-subscribe never flips state.
	if channel == subscriber {
		return "", apperrors.NewInvalidArgumentError("cannot subscribe to your own channel")
	}
	if _, err := s.users.FindByID(ctx, channel); err != nil {
		return "", repoError(err, "channel")
	}

	filter := bson.D{
		{Key: "channel", Value: channel},
		{Key: "subscriber", Value: subscriber},
	}
	_, err = s.subscriptions.DeleteWhere(ctx, filter)
	if err == nil {
		return domain.ToggleRemoved, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", repoError(err, "subscription")
	}

	sub := &domain.Subscription{
		Channel:    channel,
		Subscriber: subscriber,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.subscriptions.Create(ctx, sub); err != nil {
		return "", repoError(err, "subscription")
	}
	return domain.ToggleAdded, nil
}

func (s *subscriptionService) GetChannelSubscribers(ctx context.Context, channelID string, page query.PageRequest) (*query.Page[domain.PublicProfile], error) {
	channel, err := parseID(channelID, "channel ID")
	if err != nil {
		return nil, err
	}
	return s.listProfiles(ctx, query.EqID("channel", channel), "subscriber", page)
}

func (s *subscriptionService) GetSubscribedChannels(ctx context.Context, subscriberID string, page query.PageRequest) (*query.Page[domain.PublicProfile], error) {
	subscriber, err := parseID(subscriberID, "subscriber ID")
	if err != nil {
		return nil, err
	}
	return s.listProfiles(ctx, query.EqID("subscriber", subscriber), "channel", page)
}

type profileRow struct {
	Profile domain.PublicProfile `bson:"profile"`
}

// listProfiles resolves one side of the subscription join rows to public
// profiles. localField names the side being resolved.
func (s *subscriptionService) listProfiles(ctx context.Context, filter bson.D, localField string, page query.PageRequest) (*query.Page[domain.PublicProfile], error) {
	pipeline, err := query.NewBuilder().
		Match(filter).
		Join(domain.CollectionUsers, localField, "_id", "profile",
			query.ReshapeStage{Fields: []query.ProjectField{
				{Name: "username"},
				{Name: "fullname"},
				{Name: "avatar"},
			}},
		).
		ComputeField("profile", query.FirstExpr{Field: "profile"}).
		Build()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build subscription pipeline", http.StatusInternalServerError)
	}

	rows, err := query.Paginate[profileRow](ctx, s.subscriptions, pipeline, page)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.PublicProfile, 0, len(rows.Items))
	for _, row := range rows.Items {
		profiles = append(profiles, row.Profile)
	}
	return &query.Page[domain.PublicProfile]{
		Items:       profiles,
		Page:        rows.Page,
		Limit:       rows.Limit,
		TotalItems:  rows.TotalItems,
		TotalPages:  rows.TotalPages,
		HasNextPage: rows.HasNextPage,
		HasPrevPage: rows.HasPrevPage,
	}, nil
}
