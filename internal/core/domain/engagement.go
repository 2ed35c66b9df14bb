package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is a polymorphic join row: exactly one of Video, Comment or Tweet is
// set. Existence of the row means "liked"; there is no counter field.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Video     primitive.ObjectID `bson:"video,omitempty" json:"video,omitempty"`
	Comment   primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Tweet     primitive.ObjectID `bson:"tweet,omitempty" json:"tweet,omitempty"`
	LikedBy   primitive.ObjectID `bson:"liked_by" json:"liked_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Subscription joins a subscriber to a channel (both users).
type Subscription struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Channel    primitive.ObjectID `bson:"channel" json:"channel"`
	Subscriber primitive.ObjectID `bson:"subscriber" json:"subscriber"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// LikedVideo is a like row joined with the video it points at.
type LikedVideo struct {
	ID        primitive.ObjectID `bson:"_id" json:"like_id"`
	Video     VideoWithOwner     `bson:"video" json:"video"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ToggleOutcome reports which way a toggle-by-existence operation flipped.
type ToggleOutcome string

const (
	ToggleAdded   ToggleOutcome = "added"
	ToggleRemoved ToggleOutcome = "removed"
)
