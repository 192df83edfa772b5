// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Index creation is idempotent for
// identical specs; errors are aggregated so startup can fail fast with
// every problem visible.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	// Email must be unique across all users; duplicate registration is
	// rejected by this index, not by a racy pre-check.
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
	})
	return err
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	// At most one profile per user.
	_, err := db.Collection("profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_profiles_user"),
	})
	return err
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("posts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Feed is newest-first.
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("posts_date_desc"),
		},
		// Cascade delete removes a user's posts by owner.
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("posts_user_date"),
		},
	})
	return err
}
