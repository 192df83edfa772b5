package state

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/internal/app/system/githubrepos"
	"devlink/internal/domain/models"
)

// Kind names a state transition. Kinds map 1:1 to server operations.
type Kind string

const (
	Registered Kind = "registered"
	LoggedIn   Kind = "logged-in"
	AuthError  Kind = "auth-error"
	LoggedOut  Kind = "logged-out"
	UserLoaded Kind = "user-loaded"

	ProfileFetched  Kind = "profile-fetched"
	ProfilesFetched Kind = "profiles-fetched"
	ReposFetched    Kind = "repos-fetched"
	ProfileError    Kind = "profile-error"
	ProfileCleared  Kind = "profile-cleared"

	PostsFetched   Kind = "posts-fetched"
	PostFetched    Kind = "post-fetched"
	PostAdded      Kind = "post-added"
	PostDeleted    Kind = "post-deleted"
	LikesUpdated   Kind = "likes-updated"
	CommentAdded   Kind = "comment-added"
	CommentDeleted Kind = "comment-deleted"
	PostError      Kind = "post-error"
)

// Action carries a transition and its payload. Only the fields the
// kind's reducer reads are meaningful; the rest stay zero.
type Action struct {
	Kind Kind

	Token    string
	User     models.User
	Profile  models.ProfileWithOwner
	Profiles []models.ProfileWithOwner
	Repos    []githubrepos.Repo
	Posts    []models.Post
	Post     models.Post
	PostID   primitive.ObjectID
	Likes    []models.Like
	Comments []models.Comment
	Err      string
}
