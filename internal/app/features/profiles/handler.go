// internal/app/features/profiles/handler.go
package profiles

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	poststore "devlink/internal/app/store/posts"
	profilestore "devlink/internal/app/store/profiles"
	userstore "devlink/internal/app/store/users"
	"devlink/internal/app/system/apierr"
	"devlink/internal/app/system/auth"
	"devlink/internal/app/system/githubrepos"
	"devlink/internal/app/system/htmlsanitize"
	"devlink/internal/app/system/inputval"
	"devlink/internal/app/system/normalize"
	"devlink/internal/app/system/timeouts"
	"devlink/internal/domain/models"
)

// Handler serves profiles, their embedded experience and education
// entries, the account deletion cascade, and the GitHub repo proxy.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Profiles *profilestore.Store
	Users    *userstore.Store
	Posts    *poststore.Store
	Tokens   *auth.TokenManager
	Github   *githubrepos.Client
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, github *githubrepos.Client, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Profiles: profilestore.New(db),
		Users:    userstore.New(db),
		Posts:    poststore.New(db),
		Tokens:   tokens,
		Github:   github,
	}
}

// GetMine returns the caller's profile with owner fields joined in.
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	profile, err := h.Profiles.GetByUserWithOwner(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("There is no profile for this user").WithStatus(http.StatusBadRequest))
			return
		}
		h.Log.Error("failed to load own profile", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, profile)
}

// ListAll returns every profile with owner fields joined in.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profiles, err := h.Profiles.GetAllWithOwner(ctx)
	if err != nil {
		h.Log.Error("failed to list profiles", zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, profiles)
}

// GetByUser returns one user's profile. A malformed id renders the same
// as an absent profile.
func (h *Handler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "user_id"))
	if err != nil {
		apierr.Write(w, apierr.NotFound("Profile not found").WithStatus(http.StatusBadRequest))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	profile, err := h.Profiles.GetByUserWithOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("Profile not found").WithStatus(http.StatusBadRequest))
			return
		}
		h.Log.Error("failed to load profile", zap.String("user_id", userID.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, profile)
}

type upsertRequest struct {
	Status         string `json:"status" validate:"required"`
	Skills         string `json:"skills" validate:"required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

var upsertMessages = map[string]string{
	"Status": "Status is required",
	"Skills": "Skills is required",
}

// Upsert creates or replaces the caller's profile fields. Embedded
// experience and education entries are untouched.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	var req upsertRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	if apiErr := inputval.Struct(req, upsertMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fields := models.Profile{
		Status:         htmlsanitize.Sanitize(req.Status),
		Skills:         normalize.Skills(req.Skills),
		Company:        htmlsanitize.Sanitize(req.Company),
		Website:        htmlsanitize.Sanitize(req.Website),
		Location:       htmlsanitize.Sanitize(req.Location),
		Bio:            htmlsanitize.Sanitize(req.Bio),
		GithubUsername: htmlsanitize.Sanitize(req.GithubUsername),
		Social: models.Social{
			Youtube:   htmlsanitize.Sanitize(req.Youtube),
			Twitter:   htmlsanitize.Sanitize(req.Twitter),
			Facebook:  htmlsanitize.Sanitize(req.Facebook),
			Linkedin:  htmlsanitize.Sanitize(req.Linkedin),
			Instagram: htmlsanitize.Sanitize(req.Instagram),
		},
	}

	profile, err := h.Profiles.Upsert(ctx, uid, fields)
	if err != nil {
		h.Log.Error("failed to upsert profile", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, profile)
}

type experienceRequest struct {
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    string     `json:"location"`
	From        *time.Time `json:"from" validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

var experienceMessages = map[string]string{
	"Title":   "Title is required",
	"Company": "Company is required",
	"From":    "From date is required",
}

// AddExperience prepends a work history entry to the caller's profile.
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	var req experienceRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	if apiErr := inputval.Struct(req, experienceMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Profiles.AddExperience(ctx, uid, models.Experience{
		Title:       htmlsanitize.Sanitize(req.Title),
		Company:     htmlsanitize.Sanitize(req.Company),
		Location:    htmlsanitize.Sanitize(req.Location),
		From:        *req.From,
		To:          req.To,
		Current:     req.Current,
		Description: htmlsanitize.Sanitize(req.Description),
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("There is no profile for this user").WithStatus(http.StatusBadRequest))
			return
		}
		h.Log.Error("failed to add experience", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, profile)
}

// RemoveExperience deletes a work history entry by its id.
func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	h.removeEntry(w, r, "exp_id", h.Profiles.RemoveExperience)
}

type educationRequest struct {
	School       string     `json:"school" validate:"required"`
	Degree       string     `json:"degree" validate:"required"`
	FieldOfStudy string     `json:"fieldofstudy" validate:"required"`
	From         *time.Time `json:"from" validate:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

var educationMessages = map[string]string{
	"School":       "School is required",
	"Degree":       "Degree is required",
	"FieldOfStudy": "Field of study is required",
	"From":         "From date is required",
}

// AddEducation prepends an education entry to the caller's profile.
func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	var req educationRequest
	if apiErr := inputval.DecodeJSON(r, &req); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}
	if apiErr := inputval.Struct(req, educationMessages); apiErr != nil {
		apierr.Write(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Profiles.AddEducation(ctx, uid, models.Education{
		School:       htmlsanitize.Sanitize(req.School),
		Degree:       htmlsanitize.Sanitize(req.Degree),
		FieldOfStudy: htmlsanitize.Sanitize(req.FieldOfStudy),
		From:         *req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  htmlsanitize.Sanitize(req.Description),
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierr.Write(w, apierr.NotFound("There is no profile for this user").WithStatus(http.StatusBadRequest))
			return
		}
		h.Log.Error("failed to add education", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	apierr.WriteJSON(w, profile)
}

// RemoveEducation deletes an education entry by its id.
func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	h.removeEntry(w, r, "edu_id", h.Profiles.RemoveEducation)
}

func (h *Handler) removeEntry(w http.ResponseWriter, r *http.Request, param string,
	remove func(context.Context, primitive.ObjectID, primitive.ObjectID) (models.Profile, error)) {

	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		apierr.Write(w, apierr.NotFound("Profile entry not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := remove(ctx, uid, entryID)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			apierr.Write(w, apierr.NotFound("There is no profile for this user").WithStatus(http.StatusBadRequest))
		case errors.Is(err, profilestore.ErrEntryNotFound):
			apierr.Write(w, apierr.NotFound("Profile entry not found"))
		default:
			h.Log.Error("failed to remove profile entry",
				zap.String("user_id", uid.Hex()), zap.String("entry_id", entryID.Hex()), zap.Error(err))
			apierr.Write(w, apierr.Server())
		}
		return
	}

	apierr.WriteJSON(w, profile)
}

type deleteResponse struct {
	Msg string `json:"msg"`
}

// DeleteAccount removes the caller's posts, profile, and user document,
// in that order. A failure mid-sequence leaves earlier deletions in
// place; there is no compensation.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.CurrentUserID(r)
	if !ok {
		apierr.Write(w, apierr.Auth("No token, authorization denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Posts.DeleteByUser(ctx, uid); err != nil {
		h.Log.Error("cascade failed deleting posts", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}
	if err := h.Profiles.Delete(ctx, uid); err != nil {
		h.Log.Error("cascade failed deleting profile", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}
	if err := h.Users.Delete(ctx, uid); err != nil {
		h.Log.Error("cascade failed deleting user", zap.String("user_id", uid.Hex()), zap.Error(err))
		apierr.Write(w, apierr.Server())
		return
	}

	h.Log.Info("account deleted", zap.String("user_id", uid.Hex()))
	apierr.WriteJSON(w, deleteResponse{Msg: "Delete Successful"})
}

// GithubRepos proxies the five most recently created public repos for a
// GitHub username.
func (h *Handler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	repos, err := h.Github.RecentRepos(ctx, username)
	if err != nil {
		apierr.Write(w, apierr.NotFound("No github found"))
		return
	}

	apierr.WriteJSON(w, repos)
}
