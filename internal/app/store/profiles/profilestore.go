// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devlink/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// ErrEntryNotFound is returned when an experience or education entry id
// does not exist on the profile.
var ErrEntryNotFound = errors.New("profile entry not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	var profile models.Profile
	err := s.c.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// ownerLookup joins the owning user's name and avatar onto each profile.
func ownerLookup() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}},
		{"$unwind": "$owner"},
		{"$project": bson.M{"owner.password": 0, "owner.email": 0}},
	}
}

// GetAllWithOwner returns every profile with the owner's name and avatar
// joined in.
func (s *Store) GetAllWithOwner(ctx context.Context) ([]models.ProfileWithOwner, error) {
	cur, err := s.c.Aggregate(ctx, ownerLookup())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]models.ProfileWithOwner, 0)
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByUserWithOwner returns one user's profile with owner fields joined
// in, or mongo.ErrNoDocuments when the user has no profile.
func (s *Store) GetByUserWithOwner(ctx context.Context, userID primitive.ObjectID) (models.ProfileWithOwner, error) {
	pipeline := append([]bson.M{{"$match": bson.M{"user": userID}}}, ownerLookup()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ProfileWithOwner{}, err
	}
	defer cur.Close(ctx)

	var profiles []models.ProfileWithOwner
	if err := cur.All(ctx, &profiles); err != nil {
		return models.ProfileWithOwner{}, err
	}
	if len(profiles) == 0 {
		return models.ProfileWithOwner{}, mongo.ErrNoDocuments
	}
	return profiles[0], nil
}

// Upsert creates the user's profile on first write and replaces the
// top-level fields on later writes. Experience and education entries are
// never touched here, so re-submitting the profile form keeps them.
func (s *Store) Upsert(ctx context.Context, userID primitive.ObjectID, fields models.Profile) (models.Profile, error) {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"company":        fields.Company,
			"website":        fields.Website,
			"location":       fields.Location,
			"bio":            fields.Bio,
			"status":         fields.Status,
			"githubusername": fields.GithubUsername,
			"skills":         fields.Skills,
			"social":         fields.Social,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"user":       userID,
			"experience": []models.Experience{},
			"education":  []models.Education{},
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile)
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// AddExperience prepends an entry so the newest shows first. Returns
// mongo.ErrNoDocuments when the user has no profile.
func (s *Store) AddExperience(ctx context.Context, userID primitive.ObjectID, exp models.Experience) (models.Profile, error) {
	exp.ID = primitive.NewObjectID()

	update := bson.M{
		"$push": bson.M{"experience": bson.M{"$each": []models.Experience{exp}, "$position": 0}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile)
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// RemoveExperience deletes the entry with the given id. Removing an id
// that is not present is ErrEntryNotFound; other entries keep their
// relative order.
func (s *Store) RemoveExperience(ctx context.Context, userID, entryID primitive.ObjectID) (models.Profile, error) {
	return s.pullEntry(ctx, userID, "experience", entryID)
}

// AddEducation prepends an entry so the newest shows first.
func (s *Store) AddEducation(ctx context.Context, userID primitive.ObjectID, edu models.Education) (models.Profile, error) {
	edu.ID = primitive.NewObjectID()

	update := bson.M{
		"$push": bson.M{"education": bson.M{"$each": []models.Education{edu}, "$position": 0}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile)
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// RemoveEducation deletes the entry with the given id.
func (s *Store) RemoveEducation(ctx context.Context, userID, entryID primitive.ObjectID) (models.Profile, error) {
	return s.pullEntry(ctx, userID, "education", entryID)
}

func (s *Store) pullEntry(ctx context.Context, userID primitive.ObjectID, field string, entryID primitive.ObjectID) (models.Profile, error) {
	// The $pull runs alone so ModifiedCount reflects only whether the
	// entry existed; a missing entry is then distinguishable from a
	// missing profile.
	res, err := s.c.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$pull": bson.M{field: bson.M{"_id": entryID}},
	})
	if err != nil {
		return models.Profile{}, err
	}
	if res.MatchedCount == 0 {
		return models.Profile{}, mongo.ErrNoDocuments
	}
	if res.ModifiedCount == 0 {
		return models.Profile{}, ErrEntryNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err = s.c.FindOneAndUpdate(ctx, bson.M{"user": userID},
		bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}, opts).Decode(&profile)
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// Delete removes the user's profile. Deleting a user without a profile
// is not an error.
func (s *Store) Delete(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user": userID})
	return err
}
