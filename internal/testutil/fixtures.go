package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with a fixed bcrypt-shaped placeholder hash.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  "$2a$10$fixturefixturefixturefixturefixturefixturefixturefix",
		Avatar:    "https://www.gravatar.com/avatar/0?s=200&r=pg&d=mm",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateProfile inserts a minimal profile for the given user.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, status string, skills []string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	profile := models.Profile{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Status:     status,
		Skills:     skills,
		Experience: []models.Experience{},
		Education:  []models.Education{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreatePost inserts a post owned by the given user with its snapshot
// fields filled from the arguments.
func (f *Fixtures) CreatePost(ctx context.Context, userID primitive.ObjectID, name, avatar, text string) models.Post {
	f.t.Helper()

	post := models.Post{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		Text:     text,
		Name:     name,
		Avatar:   avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     time.Now().UTC(),
	}

	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
