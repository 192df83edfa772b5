// internal/app/features/session/handler.go
package session

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
	"devlink/internal/app/system/inputval"
	"devlink/internal/app/system/ratelimit"
	"devlink/internal/app/system/timeouts"
)

// Handler authenticates users and serves the current account.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Users   *userstore.Store
	Tokens  *auth.TokenManager
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Users:   userstore.New(db),
		Tokens:  tokens,
		Limiter: ratelimit.NewLoginLimiter(),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"Email":    "Please include a valid email",
	"Password": "Password is required",
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token. An unknown email and a wrong
// password produce the same response, so the endpoint does not reveal
// which emails are registered.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	if apiErr := inputval.Struct(req, loginMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		apierr.Write(w, apierr.Auth(reason).WithStatus(http.StatusTooManyRequests))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.Conflict("Invalid credentials"))
			return
		}
		h.Log.Error("failed to look up user", zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		apierr.Write(w, apierr.Conflict("Invalid credentials"))
		return
	}

	h.Limiter.ResetEmail(req.Email)

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.Log.Error("failed to issue token", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, tokenResponse{Token: token})
}

// Me returns the authenticated user without the password hash.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Valid token for a deleted account.
			apierr.Write(w, apierr.Auth("Token is not valid"))
			return
		}
		h.Log.Error("failed to load current user", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, user)
}
