package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. A user doubles as a channel: subscriptions
// point at user documents.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	FullName     string               `bson:"fullname" json:"fullname"`
	Password     string               `bson:"password" json:"-"`
	Avatar       MediaRef             `bson:"avatar,omitempty" json:"avatar"`
	CoverImage   MediaRef             `bson:"cover_image,omitempty" json:"cover_image"`
	RefreshToken string               `bson:"refresh_token,omitempty" json:"-"`
	WatchHistory []primitive.ObjectID `bson:"watch_history,omitempty" json:"watch_history,omitempty"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// PublicProfile is the cross-user readable projection of a user document.
type PublicProfile struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"fullname" json:"fullname"`
	Avatar   MediaRef           `bson:"avatar,omitempty" json:"avatar"`
}

// ChannelProfile is a user document enriched with subscription aggregates.
type ChannelProfile struct {
	ID                      primitive.ObjectID `bson:"_id" json:"id"`
	Username                string             `bson:"username" json:"username"`
	Email                   string             `bson:"email" json:"email"`
	FullName                string             `bson:"fullname" json:"fullname"`
	Avatar                  MediaRef           `bson:"avatar,omitempty" json:"avatar"`
	CoverImage              MediaRef           `bson:"cover_image,omitempty" json:"cover_image"`
	SubscriberCount         int64              `bson:"subscriber_count" json:"subscriber_count"`
	ChannelSubscribedToCount int64             `bson:"channels_subscribed_to_count" json:"channels_subscribed_to_count"`
	IsSubscribed            bool               `bson:"is_subscribed" json:"is_subscribed"`
	CreatedAt               time.Time          `bson:"created_at" json:"created_at"`
}
