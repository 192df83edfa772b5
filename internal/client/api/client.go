// Package api is the typed REST client for a devlink server. It carries
// the session token on every request and converts API error bodies into
// *APIError values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"devlink/internal/app/system/githubrepos"
	"devlink/internal/domain/models"
)

const tokenHeader = "x-auth-token"

// APIError is a non-2xx response, carrying the server's message(s).
type APIError struct {
	StatusCode int
	Msgs       []string
}

func (e *APIError) Error() string {
	if len(e.Msgs) > 0 {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, strings.Join(e.Msgs, "; "))
	}
	return fmt.Sprintf("api: %d", e.StatusCode)
}

// Client talks to one devlink server. Methods are safe for sequential
// use; set the token once after login.
type Client struct {
	base  string
	hc    *http.Client
	token string
}

// New returns a Client for the server at baseURL. A nil httpClient uses
// a default with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   httpClient,
	}
}

// SetToken stores the session token sent with subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the stored session token.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError handles both error body shapes the server produces:
// {"errors":[{"msg":…},…]} and {"msg":…}.
func decodeAPIError(status int, raw []byte) *APIError {
	var list struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &list); err == nil && len(list.Errors) > 0 {
		msgs := make([]string, 0, len(list.Errors))
		for _, e := range list.Errors {
			msgs = append(msgs, e.Msg)
		}
		return &APIError{StatusCode: status, Msgs: msgs}
	}

	var single struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &single); err == nil && single.Msg != "" {
		return &APIError{StatusCode: status, Msgs: []string{single.Msg}}
	}

	return &APIError{StatusCode: status}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and returns the session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/users", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Me returns the account behind the stored token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/auth", nil, &user)
	return user, err
}

// MyProfile returns the caller's profile.
func (c *Client) MyProfile(ctx context.Context) (models.ProfileWithOwner, error) {
	var profile models.ProfileWithOwner
	err := c.do(ctx, http.MethodGet, "/api/profile/me", nil, &profile)
	return profile, err
}

// Profiles returns every profile with owner fields.
func (c *Client) Profiles(ctx context.Context) ([]models.ProfileWithOwner, error) {
	var profiles []models.ProfileWithOwner
	err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profiles)
	return profiles, err
}

// ProfileByUser returns one user's profile.
func (c *Client) ProfileByUser(ctx context.Context, userID string) (models.ProfileWithOwner, error) {
	var profile models.ProfileWithOwner
	err := c.do(ctx, http.MethodGet, "/api/profile/users/"+userID, nil, &profile)
	return profile, err
}

// ProfileUpsert is the writable profile form. Skills is the raw
// comma-delimited string; the server normalizes it.
type ProfileUpsert struct {
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	GithubUsername string `json:"githubusername,omitempty"`
	Youtube        string `json:"youtube,omitempty"`
	Twitter        string `json:"twitter,omitempty"`
	Facebook       string `json:"facebook,omitempty"`
	Linkedin       string `json:"linkedin,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
}

// UpsertProfile creates or updates the caller's profile.
func (c *Client) UpsertProfile(ctx context.Context, form ProfileUpsert) (models.Profile, error) {
	var profile models.Profile
	err := c.do(ctx, http.MethodPost, "/api/profile", form, &profile)
	return profile, err
}

// DeleteAccount removes the caller's posts, profile, and account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}

// Repos returns a user's recent public GitHub repos via the server
// proxy.
func (c *Client) Repos(ctx context.Context, username string) ([]githubrepos.Repo, error) {
	var repos []githubrepos.Repo
	err := c.do(ctx, http.MethodGet, "/api/profile/github/"+username, nil, &repos)
	return repos, err
}

// Feed returns all posts, newest first.
func (c *Client) Feed(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts)
	return posts, err
}

// Post returns one post.
func (c *Client) Post(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	err := c.do(ctx, http.MethodGet, "/api/posts/"+id, nil, &post)
	return post, err
}

// CreatePost publishes a post and returns it.
func (c *Client) CreatePost(ctx context.Context, text string) (models.Post, error) {
	var post models.Post
	err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &post)
	return post, err
}

// DeletePost removes the caller's post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+id, nil, nil)
}

// Like records a like and returns the post's like list.
func (c *Client) Like(ctx context.Context, id string) ([]models.Like, error) {
	var likes []models.Like
	err := c.do(ctx, http.MethodPut, "/api/posts/like/"+id, nil, &likes)
	return likes, err
}

// Unlike withdraws a like and returns the post's like list.
func (c *Client) Unlike(ctx context.Context, id string) ([]models.Like, error) {
	var likes []models.Like
	err := c.do(ctx, http.MethodPut, "/api/posts/unlike/"+id, nil, &likes)
	return likes, err
}

// AddComment comments on a post and returns the comment list.
func (c *Client) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodPost, "/api/posts/comment/"+postID, map[string]string{"text": text}, &comments)
	return comments, err
}

// DeleteComment removes the caller's comment and returns the remaining
// comment list.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodDelete, "/api/posts/comment/"+postID+"/"+commentID, nil, &comments)
	return comments, err
}
