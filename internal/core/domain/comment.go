package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a flat comment on a video. No nesting.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Video     primitive.ObjectID `bson:"video" json:"video"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CommentWithOwner is a comment joined with its author's public profile.
type CommentWithOwner struct {
	Comment      `bson:",inline"`
	OwnerProfile PublicProfile `bson:"owner_profile" json:"owner_profile"`
}
