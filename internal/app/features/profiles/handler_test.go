package profiles

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"devlink/internal/app/system/auth"
	"devlink/internal/app/system/githubrepos"
	"devlink/internal/domain/models"
	"devlink/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	tokens, err := auth.NewTokenManager("test-secret", auth.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	logger := zap.NewNop()
	return NewHandler(db, tokens, githubrepos.New("", logger), logger), testutil.NewFixtures(t, db)
}

func TestGetMine(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	fx.CreateProfile(ctx, alice.ID, "Developer", []string{"Go"})

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	rec := httptest.NewRecorder()
	h.GetMine(rec, testutil.AsUser(req, alice.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.ProfileWithOwner
	testutil.DecodeBody(t, rec, &got)
	if got.Owner.Name != "Alice" {
		t.Errorf("owner name = %q", got.Owner.Name)
	}
}

func TestGetMineWithoutProfile(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fx.CreateUser(ctx, "Bob", "bob@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	rec := httptest.NewRecorder()
	h.GetMine(rec, testutil.AsUser(req, bob.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := testutil.ErrMsg(t, rec); msg != "There is no profile for this user" {
		t.Errorf("msg = %q", msg)
	}
}

func TestGetByUserMalformedID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/users/not-a-hex-id", nil)
	req = testutil.WithChiURLParam(req, "user_id", "not-a-hex-id")
	rec := httptest.NewRecorder()
	h.GetByUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := testutil.ErrMsg(t, rec); msg != "Profile not found" {
		t.Errorf("msg = %q", msg)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")

	payload := map[string]any{
		"status":  "Developer",
		"skills":  "Go, MongoDB, , Docker ",
		"bio":     "I write <script>alert(1)</script>services",
		"twitter": "https://twitter.com/alice",
	}

	send := func() (*httptest.ResponseRecorder, models.Profile) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/profile", payload)
		rec := httptest.NewRecorder()
		h.Upsert(rec, testutil.AsUser(req, alice.ID))
		var p models.Profile
		if rec.Code == http.StatusOK {
			testutil.DecodeBody(t, rec, &p)
		}
		return rec, p
	}

	rec, first := send()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if want := []string{"Go", "MongoDB", "Docker"}; !slices.Equal(first.Skills, want) {
		t.Errorf("skills = %v, want %v", first.Skills, want)
	}
	if first.Bio != "I write services" {
		t.Errorf("bio not sanitized: %q", first.Bio)
	}
	if first.Social.Twitter == "" {
		t.Error("social link lost")
	}

	rec, second := send()
	if rec.Code != http.StatusOK {
		t.Fatalf("second upsert status = %d", rec.Code)
	}
	if second.ID != first.ID {
		t.Error("second upsert created a new profile")
	}
	if !slices.Equal(second.Skills, first.Skills) {
		t.Error("second upsert changed skills")
	}
}

func TestUpsertValidation(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/profile", map[string]string{})
	rec := httptest.NewRecorder()
	h.Upsert(rec, testutil.AsUser(req, alice.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	msgs := testutil.ErrList(t, rec)
	for _, want := range []string{"Status is required", "Skills is required"} {
		if !slices.Contains(msgs, want) {
			t.Errorf("missing %q in %v", want, msgs)
		}
	}
}

func TestAddExperienceValidationAndPrepend(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	fx.CreateProfile(ctx, alice.ID, "Developer", []string{"Go"})

	// Missing everything.
	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/profile/experience", map[string]string{})
	rec := httptest.NewRecorder()
	h.AddExperience(rec, testutil.AsUser(req, alice.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	msgs := testutil.ErrList(t, rec)
	for _, want := range []string{"Title is required", "Company is required", "From date is required"} {
		if !slices.Contains(msgs, want) {
			t.Errorf("missing %q in %v", want, msgs)
		}
	}

	add := func(title string) models.Profile {
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/profile/experience", map[string]any{
			"title":   title,
			"company": "Acme",
			"from":    time.Now().UTC().Format(time.RFC3339),
		})
		rec := httptest.NewRecorder()
		h.AddExperience(rec, testutil.AsUser(req, alice.ID))
		if rec.Code != http.StatusOK {
			t.Fatalf("AddExperience(%q) status = %d, body = %s", title, rec.Code, rec.Body.String())
		}
		var p models.Profile
		testutil.DecodeBody(t, rec, &p)
		return p
	}

	add("Older Role")
	p := add("Newer Role")
	if len(p.Experience) != 2 || p.Experience[0].Title != "Newer Role" {
		t.Fatalf("experience = %+v, want newest first", p.Experience)
	}
}

func TestAddExperienceWithoutProfile(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fx.CreateUser(ctx, "Bob", "bob@example.com")

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/profile/experience", map[string]any{
		"title":   "Engineer",
		"company": "Acme",
		"from":    time.Now().UTC().Format(time.RFC3339),
	})
	rec := httptest.NewRecorder()
	h.AddExperience(rec, testutil.AsUser(req, bob.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRemoveExperience(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	fx.CreateProfile(ctx, alice.ID, "Developer", []string{"Go"})

	p, err := h.Profiles.AddExperience(ctx, alice.ID, models.Experience{
		Title: "Engineer", Company: "Acme", From: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddExperience failed: %v", err)
	}
	entryID := p.Experience[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/api/profile/experience/"+entryID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "exp_id", entryID.Hex())
	rec := httptest.NewRecorder()
	h.RemoveExperience(rec, testutil.AsUser(req, alice.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.Profile
	testutil.DecodeBody(t, rec, &got)
	if len(got.Experience) != 0 {
		t.Errorf("experience not removed: %+v", got.Experience)
	}

	// Removing again reports the entry missing.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/profile/experience/"+entryID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "exp_id", entryID.Hex())
	h.RemoveExperience(rec, testutil.AsUser(req, alice.ID))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat remove status = %d, want 404", rec.Code)
	}
}

func TestAddEducationValidation(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	fx.CreateProfile(ctx, alice.ID, "Student", []string{"Go"})

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/profile/education", map[string]string{})
	rec := httptest.NewRecorder()
	h.AddEducation(rec, testutil.AsUser(req, alice.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	msgs := testutil.ErrList(t, rec)
	for _, want := range []string{
		"School is required",
		"Degree is required",
		"Field of study is required",
		"From date is required",
	} {
		if !slices.Contains(msgs, want) {
			t.Errorf("missing %q in %v", want, msgs)
		}
	}
}

func TestDeleteAccountCascade(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	bob := fx.CreateUser(ctx, "Bob", "bob@example.com")
	fx.CreateProfile(ctx, alice.ID, "Developer", []string{"Go"})
	fx.CreatePost(ctx, alice.ID, alice.Name, alice.Avatar, "alice post")
	bobPost := fx.CreatePost(ctx, bob.ID, bob.Name, bob.Avatar, "bob post")

	req := httptest.NewRequest(http.MethodDelete, "/api/profile", nil)
	rec := httptest.NewRecorder()
	h.DeleteAccount(rec, testutil.AsUser(req, alice.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if msg := testutil.ErrMsg(t, rec); msg != "Delete Successful" {
		t.Errorf("msg = %q", msg)
	}

	if _, err := h.Users.GetByID(ctx, alice.ID); err == nil {
		t.Error("user survived the cascade")
	}
	if _, err := h.Profiles.GetByUser(ctx, alice.ID); err == nil {
		t.Error("profile survived the cascade")
	}
	posts, err := h.Posts.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != bobPost.ID {
		t.Errorf("posts after cascade = %+v, want only Bob's", posts)
	}
}

func TestGithubReposUnknownUser(t *testing.T) {
	h, _ := newTestHandler(t)

	// An implausible username: the unauthenticated call fails upstream
	// and must render as the standard 404 body.
	name := "devlink-test-" + primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodGet, "/api/profile/github/"+name, nil)
	req = testutil.WithChiURLParam(req, "username", name)
	rec := httptest.NewRecorder()
	h.GithubRepos(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := testutil.ErrMsg(t, rec); msg != "No github found" {
		t.Errorf("msg = %q", msg)
	}
}
