// internal/app/store/posts/poststore.go
package poststore

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

var (
	// ErrAlreadyLiked is returned when the user has already liked the post.
	ErrAlreadyLiked = errors.New("post already liked")
	// ErrNotLiked is returned when unliking a post the user never liked.
	ErrNotLiked = errors.New("post has not been liked")
	// ErrCommentNotFound is returned when a comment id does not exist on
	// the post.
	ErrCommentNotFound = errors.New("comment not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts a post with the author's name and avatar denormalized
// onto it. The snapshot is deliberate: later changes to the author do
// not rewrite old posts.
func (s *Store) Create(ctx context.Context, post models.Post) (models.Post, error) {
	post.ID = primitive.NewObjectID()
	post.Likes = []models.Like{}
	post.Comments = []models.Comment{}
	post.Date = time.Now().UTC()

	_, err := s.c.InsertOne(ctx, post)
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// ListAll returns every post, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := make([]models.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var post models.Post
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByUser removes all posts owned by the user. Part of the account
// deletion cascade.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user": userID})
	return err
}

// AddLike records the user's like and returns the updated likes list.
// The filter excludes posts the user already liked, so a double like
// cannot slip in between a check and an update.
func (s *Store) AddLike(ctx context.Context, postID, userID primitive.ObjectID) ([]models.Like, error) {
	filter := bson.M{
		"_id":        postID,
		"likes.user": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{"likes": bson.M{"$each": []models.Like{{UserID: userID}}, "$position": 0}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the post is gone or the user already liked it.
		if _, lookupErr := s.GetByID(ctx, postID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrAlreadyLiked
	}
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// RemoveLike withdraws the user's like and returns the updated likes
// list.
func (s *Store) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) ([]models.Like, error) {
	filter := bson.M{
		"_id":        postID,
		"likes.user": userID,
	}
	update := bson.M{
		"$pull": bson.M{"likes": bson.M{"user": userID}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, lookupErr := s.GetByID(ctx, postID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotLiked
	}
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment prepends a comment and returns the updated comments list.
func (s *Store) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) ([]models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	comment.Date = time.Now().UTC()

	update := bson.M{
		"$push": bson.M{"comments": bson.M{"$each": []models.Comment{comment}, "$position": 0}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes the comment with the given id and returns the
// updated comments list. The caller enforces that only the comment's
// author may remove it.
func (s *Store) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) ([]models.Comment, error) {
	filter := bson.M{
		"_id":          postID,
		"comments._id": commentID,
	}
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, lookupErr := s.GetByID(ctx, postID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}
