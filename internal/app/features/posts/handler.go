// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	poststore "devlink/internal/app/store/posts"
	userstore "devlink/internal/app/store/users"
	"devlink/internal/app/system/apierr"
	"devlink/internal/app/system/auth"
	"devlink/internal/app/system/htmlsanitize"
	"devlink/internal/app/system/inputval"
	"devlink/internal/app/system/timeouts"
	"devlink/internal/domain/models"
)

// Handler serves the post feed, likes, and comments. All routes require
// a token.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Posts  *poststore.Store
	Users  *userstore.Store
	Tokens *auth.TokenManager
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Posts:  poststore.New(db),
		Users:  userstore.New(db),
		Tokens: tokens,
	}
}

type textRequest struct {
	Text string `json:"text" validate:"required"`
}

var textMessages = map[string]string{
	"Text": "Text is required",
}

// currentUser loads the caller, or writes the appropriate error and
// returns false.
func (h *Handler) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return models.User{}, false
	}

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.Auth("Token is not valid"))
			return models.User{}, false
		}
		h.Log.Error("failed to load current user", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return models.User{}, false
	}
	return user, true
}

// postID parses the {id} route parameter; a malformed id renders the
// same as an absent post.
func postID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, apierr.NotFound("Post not found"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// Create publishes a post with the caller's name and avatar snapshotted
// onto it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	req.Text = htmlsanitize.Sanitize(req.Text)
	if apiErr := inputval.Struct(req, textMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, ok := h.currentUser(ctx, w, r)
	if !ok {
		return
	}

	post, err := h.Posts.Create(ctx, models.Post{
		UserID: user.ID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	})
	if err != nil {
		h.Log.Error("failed to create post", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, post)
}

// List returns all posts, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.ListAll(ctx)
	if err != nil {
		h.Log.Error("failed to list posts", zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, posts)
}

// Get returns one post by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("Post not found"))
			return
		}
		h.Log.Error("failed to load post", zap.String("post_id", id.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, post)
}

// Delete removes a post. Only the owner may delete it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("Post not found"))
			return
		}
		h.Log.Error("failed to load post", zap.String("post_id", id.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}
	if post.UserID != uid {
		apierr.Write(w, apierr.Auth("User is not authorized"))
		return
	}

	if err := h.Posts.Delete(ctx, id); err != nil {
		h.Log.Error("failed to delete post", zap.String("post_id", id.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, post)
}

// Like records the caller's like and returns the updated like list.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	likes, err := h.Posts.AddLike(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, poststore.ErrAlreadyLiked):
			apierr.Write(w, apierr.NotFound("Post already liked").WithStatus(http.StatusBadRequest))
		case errors.Is(err, mongo.ErrNoDocuments):
			apierr.Write(w, apierr.NotFound("Post not found"))
		default:
			h.Log.Error("failed to like post", zap.String("post_id", id.Hex()), zap.Error(err))
			apierr.Write(w, apierr.Server())
		}
		return
	}

	apierr.WriteJSON(w, likes)
}

// Unlike withdraws the caller's like and returns the updated like list.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	likes, err := h.Posts.RemoveLike(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, poststore.ErrNotLiked):
			apierr.Write(w, apierr.NotFound("Post has not been liked").WithStatus(http.StatusBadRequest))
		case errors.Is(err, mongo.ErrNoDocuments):
			apierr.Write(w, apierr.NotFound("Post not found"))
		default:
			h.Log.Error("failed to unlike post", zap.String("post_id", id.Hex()), zap.Error(err))
			apierr.Write(w, apierr.Server())
		}
		return
	}

	apierr.WriteJSON(w, likes)
}

// Comment adds a comment with the caller's snapshot and returns the
// updated comment list.
func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	req.Text = htmlsanitize.Sanitize(req.Text)
	if apiErr := inputval.Struct(req, textMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	id, ok := postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, ok := h.currentUser(ctx, w, r)
	if !ok {
		return
	}

	comments, err := h.Posts.AddComment(ctx, id, models.Comment{
		UserID: user.ID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("Post not found"))
			return
		}
		h.Log.Error("failed to add comment", zap.String("post_id", id.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, comments)
}

// DeleteComment removes a comment. Only the comment's author may remove
// it.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "comment_id"))
	if err != nil {
		apierr.Write(w, apierr.NotFound("Comment does not exist"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("Post not found"))
			return
		}
		h.Log.Error("failed to load post", zap.String("post_id", id.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	var target *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			target = &post.Comments[i]
			break
		}
	}
	if target == nil {
		apierr.Write(w, apierr.NotFound("Comment does not exist"))
		return
	}
	if target.UserID != uid {
		apierr.Write(w, apierr.Auth("User is not authorized"))
		return
	}

	comments, err := h.Posts.RemoveComment(ctx, id, commentID)
	if err != nil {
		if errors.Is(err, poststore.ErrCommentNotFound) {
			apierr.Write(w, apierr.NotFound("Comment does not exist"))
			return
		}
		h.Log.Error("failed to remove comment",
			zap.String("post_id", id.Hex()), zap.String("comment_id", commentID.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, comments)
}
