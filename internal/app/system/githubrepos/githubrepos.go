// Package githubrepos proxies the public repository list for a GitHub
// username. This is an external collaborator call: any upstream failure
// surfaces as ErrNoRepos, which routes render as a 404.
package githubrepos

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrNoRepos is returned when the upstream call does not succeed for the
// requested username.
var ErrNoRepos = errors.New("no github repos found")

// Repo is the subset of repository fields the API exposes.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// Client wraps the GitHub API client.
type Client struct {
	gh  *github.Client
	log *zap.Logger
}

// New returns a Client. An empty token uses unauthenticated access with
// GitHub's lower rate limits.
func New(token string, logger *zap.Logger) *Client {
	var hc *http.Client
	if token != "" {
		hc = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &Client{gh: github.NewClient(hc), log: logger}
}

// RecentRepos returns the user's five most recently created public repos.
func (c *Client) RecentRepos(ctx context.Context, username string) ([]Repo, error) {
	opt := &github.RepositoryListOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 5},
	}

	repos, resp, err := c.gh.Repositories.List(ctx, username, opt)
	if err != nil || resp == nil || resp.StatusCode != http.StatusOK {
		c.log.Info("github repo lookup failed",
			zap.String("username", username), zap.Error(err))
		return nil, ErrNoRepos
	}

	out := make([]Repo, 0, len(repos))
	for _, r := range repos {
		out = append(out, Repo{
			Name:        r.GetName(),
			HTMLURL:     r.GetHTMLURL(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
			Watchers:    r.GetWatchersCount(),
			Forks:       r.GetForksCount(),
		})
	}
	return out, nil
}
