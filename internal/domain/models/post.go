// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is owned by a user. Name and Avatar are snapshots of the author
// taken at creation time. Likes and comments are embedded, newest-first.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	Text     string             `bson:"text" json:"text"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Date     time.Time          `bson:"date" json:"date"`
}

// Like records one user's like. A post's like list holds each user at
// most once; removal matches on the user id.
type Like struct {
	UserID primitive.ObjectID `bson:"user" json:"user"`
}

// Comment is an embedded post comment with its own author snapshot.
// Comments are addressed by ID; only the author may remove one.
type Comment struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
	Date   time.Time          `bson:"date" json:"date"`
}
