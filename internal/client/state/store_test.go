package state

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/internal/domain/models"
)

func TestAuthFlow(t *testing.T) {
	s := NewStore()

	s.Dispatch(Action{Kind: LoggedIn, Token: "tok-1"})
	if st := s.State(); !st.Auth.Authenticated || st.Auth.Token != "tok-1" {
		t.Fatalf("after login: %+v", st.Auth)
	}

	s.Dispatch(Action{Kind: UserLoaded, User: models.User{Name: "Alice"}})
	if st := s.State(); !st.Auth.Loaded || st.Auth.User.Name != "Alice" {
		t.Fatalf("after user load: %+v", st.Auth)
	}

	s.Dispatch(Action{Kind: LoggedOut})
	st := s.State()
	if st.Auth != (AuthSlice{}) {
		t.Errorf("auth not cleared on logout: %+v", st.Auth)
	}
	if st.Profile.HasProfile || len(st.Posts.Posts) != 0 || st.PostDetail.Loaded {
		t.Error("logout must clear every slice")
	}
}

func TestUnknownKindLeavesStateUnchanged(t *testing.T) {
	s := NewStore()
	s.Dispatch(Action{Kind: LoggedIn, Token: "tok-1"})
	before := s.State()

	s.Dispatch(Action{Kind: Kind("something-else"), Token: "other"})
	after := s.State()

	if after.Auth != before.Auth {
		t.Errorf("auth changed: %+v -> %+v", before.Auth, after.Auth)
	}
}

func TestPostsReducerPrependsAndDeletes(t *testing.T) {
	s := NewStore()
	older := models.Post{ID: primitive.NewObjectID(), Text: "older"}
	newer := models.Post{ID: primitive.NewObjectID(), Text: "newer"}

	s.Dispatch(Action{Kind: PostsFetched, Posts: []models.Post{older}})
	s.Dispatch(Action{Kind: PostAdded, Post: newer})

	st := s.State()
	if len(st.Posts.Posts) != 2 || st.Posts.Posts[0].ID != newer.ID {
		t.Fatalf("posts = %+v, want newest first", st.Posts.Posts)
	}

	s.Dispatch(Action{Kind: PostDeleted, PostID: older.ID})
	st = s.State()
	if len(st.Posts.Posts) != 1 || st.Posts.Posts[0].ID != newer.ID {
		t.Fatalf("posts after delete = %+v", st.Posts.Posts)
	}
}

func TestLikesUpdatedTargetsOnePost(t *testing.T) {
	s := NewStore()
	a := models.Post{ID: primitive.NewObjectID()}
	b := models.Post{ID: primitive.NewObjectID()}
	s.Dispatch(Action{Kind: PostsFetched, Posts: []models.Post{a, b}})
	s.Dispatch(Action{Kind: PostFetched, Post: a})

	likes := []models.Like{{UserID: primitive.NewObjectID()}}
	s.Dispatch(Action{Kind: LikesUpdated, PostID: a.ID, Likes: likes})

	st := s.State()
	if len(st.Posts.Posts[0].Likes) != 1 {
		t.Error("liked post not updated in the feed")
	}
	if len(st.Posts.Posts[1].Likes) != 0 {
		t.Error("unrelated post updated")
	}
	if len(st.PostDetail.Post.Likes) != 1 {
		t.Error("open post not updated")
	}
}

func TestCommentActionsUpdateDetail(t *testing.T) {
	s := NewStore()
	post := models.Post{ID: primitive.NewObjectID()}
	s.Dispatch(Action{Kind: PostFetched, Post: post})

	comments := []models.Comment{{ID: primitive.NewObjectID(), Text: "hi"}}
	s.Dispatch(Action{Kind: CommentAdded, PostID: post.ID, Comments: comments})
	if st := s.State(); len(st.PostDetail.Post.Comments) != 1 {
		t.Fatalf("detail comments = %+v", st.PostDetail.Post.Comments)
	}

	s.Dispatch(Action{Kind: CommentDeleted, PostID: post.ID, Comments: []models.Comment{}})
	if st := s.State(); len(st.PostDetail.Post.Comments) != 0 {
		t.Fatalf("detail comments after delete = %+v", st.PostDetail.Post.Comments)
	}

	// Deleting the open post clears the detail slice.
	s.Dispatch(Action{Kind: PostDeleted, PostID: post.ID})
	if st := s.State(); st.PostDetail.Loaded {
		t.Error("detail not cleared when its post was deleted")
	}
}

func TestReducerPurity(t *testing.T) {
	// Dispatching must not mutate a previously returned state copy.
	s := NewStore()
	post := models.Post{ID: primitive.NewObjectID(), Likes: []models.Like{}}
	s.Dispatch(Action{Kind: PostsFetched, Posts: []models.Post{post}})
	before := s.State()

	s.Dispatch(Action{Kind: LikesUpdated, PostID: post.ID, Likes: []models.Like{{UserID: primitive.NewObjectID()}}})

	if len(before.Posts.Posts[0].Likes) != 0 {
		t.Error("old state copy was mutated by a later dispatch")
	}
}

func TestSubscribe(t *testing.T) {
	s := NewStore()
	var seen []Kind
	unsub := s.Subscribe(func(st State) {
		seen = append(seen, Kind("notified"))
	})

	s.Dispatch(Action{Kind: LoggedIn, Token: "t"})
	if len(seen) != 1 {
		t.Fatalf("notifications = %d, want 1", len(seen))
	}

	unsub()
	s.Dispatch(Action{Kind: LoggedOut})
	if len(seen) != 1 {
		t.Fatalf("notified after unsubscribe")
	}
}

func TestProfileSlice(t *testing.T) {
	s := NewStore()

	s.Dispatch(Action{Kind: ProfileError, Err: "Profile not found"})
	if st := s.State(); st.Profile.Err != "Profile not found" {
		t.Fatalf("profile err = %q", st.Profile.Err)
	}

	profile := models.ProfileWithOwner{Owner: models.Owner{Name: "Alice"}}
	s.Dispatch(Action{Kind: ProfileFetched, Profile: profile})
	st := s.State()
	if !st.Profile.HasProfile || st.Profile.Profile.Owner.Name != "Alice" {
		t.Fatalf("profile = %+v", st.Profile)
	}
	if st.Profile.Err != "" {
		t.Error("fetch must clear the previous error")
	}

	s.Dispatch(Action{Kind: ProfileCleared})
	if st := s.State(); st.Profile.HasProfile {
		t.Error("profile not cleared")
	}
}
