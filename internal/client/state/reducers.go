package state

import (
	"devlink/internal/app/system/githubrepos"
	"devlink/internal/domain/models"
)

// AuthSlice mirrors the session: the token and, once fetched, the
// account behind it.
type AuthSlice struct {
	Token         string
	Authenticated bool
	Loaded        bool
	User          models.User
}

// ProfileSlice mirrors profile reads: the viewed profile, the public
// list, and proxied GitHub repos.
type ProfileSlice struct {
	Profile    models.ProfileWithOwner
	HasProfile bool
	Profiles   []models.ProfileWithOwner
	Repos      []githubrepos.Repo
	Err        string
}

// PostsSlice mirrors the feed.
type PostsSlice struct {
	Posts []models.Post
	Err   string
}

// PostDetailSlice mirrors one open post.
type PostDetailSlice struct {
	Post   models.Post
	Loaded bool
	Err    string
}

// Reducers are pure: they take the slice by value and return the next
// value. Unknown kinds return the input unchanged.

func reduceAuth(s AuthSlice, a Action) AuthSlice {
	switch a.Kind {
	case Registered, LoggedIn:
		s.Token = a.Token
		s.Authenticated = true
	case AuthError, LoggedOut:
		s = AuthSlice{}
	case UserLoaded:
		s.User = a.User
		s.Authenticated = true
		s.Loaded = true
	}
	return s
}

func reduceProfile(s ProfileSlice, a Action) ProfileSlice {
	switch a.Kind {
	case ProfileFetched:
		s.Profile = a.Profile
		s.HasProfile = true
		s.Err = ""
	case ProfilesFetched:
		s.Profiles = a.Profiles
		s.Err = ""
	case ReposFetched:
		s.Repos = a.Repos
		s.Err = ""
	case ProfileError:
		s.Err = a.Err
	case ProfileCleared, LoggedOut:
		s = ProfileSlice{}
	}
	return s
}

func reducePosts(s PostsSlice, a Action) PostsSlice {
	switch a.Kind {
	case PostsFetched:
		s.Posts = a.Posts
		s.Err = ""
	case PostAdded:
		next := make([]models.Post, 0, len(s.Posts)+1)
		next = append(next, a.Post)
		next = append(next, s.Posts...)
		s.Posts = next
		s.Err = ""
	case PostDeleted:
		next := make([]models.Post, 0, len(s.Posts))
		for _, p := range s.Posts {
			if p.ID != a.PostID {
				next = append(next, p)
			}
		}
		s.Posts = next
		s.Err = ""
	case LikesUpdated:
		next := make([]models.Post, len(s.Posts))
		for i, p := range s.Posts {
			if p.ID == a.PostID {
				p.Likes = a.Likes
			}
			next[i] = p
		}
		s.Posts = next
	case PostError:
		s.Err = a.Err
	case LoggedOut:
		s = PostsSlice{}
	}
	return s
}

func reducePostDetail(s PostDetailSlice, a Action) PostDetailSlice {
	switch a.Kind {
	case PostFetched:
		s.Post = a.Post
		s.Loaded = true
		s.Err = ""
	case LikesUpdated:
		if s.Loaded && s.Post.ID == a.PostID {
			s.Post.Likes = a.Likes
		}
	case CommentAdded, CommentDeleted:
		if s.Loaded && s.Post.ID == a.PostID {
			s.Post.Comments = a.Comments
		}
	case PostDeleted:
		if s.Loaded && s.Post.ID == a.PostID {
			s = PostDetailSlice{}
		}
	case PostError:
		s.Err = a.Err
	case LoggedOut:
		s = PostDetailSlice{}
	}
	return s
}
