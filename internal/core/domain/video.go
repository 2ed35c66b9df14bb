package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is an uploaded video document. Both media references are required
// once the video is published.
type Video struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	VideoFile   MediaRef           `bson:"video_file" json:"video_file"`
	Thumbnail   MediaRef           `bson:"thumbnail" json:"thumbnail"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"is_published" json:"is_published"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// VideoWithOwner is a video with the one-to-one owner join collapsed to a
// single public profile.
type VideoWithOwner struct {
	Video `bson:",inline"`
	OwnerProfile PublicProfile `bson:"owner_profile" json:"owner_profile"`
}
