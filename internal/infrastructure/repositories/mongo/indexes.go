package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the query paths depend on. Creation is
// idempotent, so this runs on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"videos": {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "is_published", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"likes": {
			{
				Keys:    bson.D{{Key: "video", Value: 1}, {Key: "liked_by", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{{Key: "video", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
			{
				Keys:    bson.D{{Key: "comment", Value: 1}, {Key: "liked_by", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{{Key: "comment", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
			{
				Keys:    bson.D{{Key: "tweet", Value: 1}, {Key: "liked_by", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{{Key: "tweet", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
		},
		"subscriptions": {
			{
				Keys:    bson.D{{Key: "channel", Value: 1}, {Key: "subscriber", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"tweets": {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"playlists": {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
