// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "devlink/internal/app/store/users"
	"devlink/internal/app/system/apierr"
	"devlink/internal/app/system/auth"
	"devlink/internal/app/system/gravatar"
	"devlink/internal/app/system/inputval"
	"devlink/internal/app/system/timeouts"
	"devlink/internal/domain/models"
)

// Handler registers new accounts.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	Users      *userstore.Store
	Tokens     *auth.TokenManager
	BcryptCost int
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		Users:      userstore.New(db),
		Tokens:     tokens,
		BcryptCost: bcryptCost,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

var registerMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Please include a valid email",
	"Password": "Please enter a password with 6 or more characters",
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a user and returns a session token. The avatar is
// derived from the email, never taken from the request.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	if apiErr := inputval.Struct(req, registerMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		h.Log.Error("failed to hash password", zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Avatar:   gravatar.URL(req.Email),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apierr.Write(w, apierr.Conflict("User already exists"))
			return
		}
		h.Log.Error("failed to create user", zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.Log.Error("failed to issue token", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, tokenResponse{Token: token})
}
