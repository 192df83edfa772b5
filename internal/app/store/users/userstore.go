// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/internal/app/system/normalize"
	"devlink/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("a user with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. The unique email index is the single
// arbiter of duplicates; a race between two registrations resolves to
// one success and one ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.Email = normalize.Email(user.Email)
	user.Name = normalize.Name(user.Name)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, user)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes the user document. Callers are responsible for the
// rest of the cascade (posts, profile).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
