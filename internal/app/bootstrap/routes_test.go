package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"devlink/internal/domain/models"
	"devlink/internal/testutil"
)

func buildTestHandler(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	appCfg := AppConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, appCfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	handler, err := BuildHandler(&config.CoreConfig{}, appCfg, deps, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}
	return handler
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == nil {
		reader = strings.NewReader("")
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// The full lifecycle of one account, through the mounted router with
// real tokens: register, login, build a profile, post, comment, like,
// and finally delete the account with its cascade.
func TestAccountLifecycle(t *testing.T) {
	h := buildTestHandler(t)

	// Register.
	rec := doJSON(t, h, http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}

	// Login.
	rec = doJSON(t, h, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tok); err != nil || tok.Token == "" {
		t.Fatalf("no token in login response: %s", rec.Body.String())
	}

	// A tokenless request to a protected route is rejected.
	rec = doJSON(t, h, http.MethodGet, "/api/auth", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tokenless me: %d, want 401", rec.Code)
	}

	// Current user.
	rec = doJSON(t, h, http.MethodGet, "/api/auth", tok.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}

	// Create a profile.
	rec = doJSON(t, h, http.MethodPost, "/api/profile", tok.Token, map[string]string{
		"status": "Developer", "skills": "Go,MongoDB",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("profile upsert: %d %s", rec.Code, rec.Body.String())
	}

	// Add and list a post.
	rec = doJSON(t, h, http.MethodPost, "/api/posts", tok.Token, map[string]string{
		"text": "hello devlink",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create post: %d %s", rec.Code, rec.Body.String())
	}
	var post models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("parse post: %v", err)
	}

	// Like, comment.
	rec = doJSON(t, h, http.MethodPut, "/api/posts/like/"+post.ID.Hex(), tok.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("like: %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPost, "/api/posts/comment/"+post.ID.Hex(), tok.Token, map[string]string{
		"text": "first",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("comment: %d %s", rec.Code, rec.Body.String())
	}

	// The public profile list shows Alice.
	rec = doJSON(t, h, http.MethodGet, "/api/profile", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile list: %d %s", rec.Code, rec.Body.String())
	}
	var profiles []models.ProfileWithOwner
	if err := json.Unmarshal(rec.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("parse profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Owner.Name != "Alice" {
		t.Fatalf("profiles = %+v", profiles)
	}

	// Delete the account.
	rec = doJSON(t, h, http.MethodDelete, "/api/profile", tok.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete account: %d %s", rec.Code, rec.Body.String())
	}

	// Everything is gone: login fails, the profile list is empty, the
	// old token no longer resolves to a user.
	rec = doJSON(t, h, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("login after delete: %d, want 400", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/profile", "", nil)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("profile list after delete = %s, want []", body)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/auth", tok.Token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after delete: %d, want 401", rec.Code)
	}
}

func TestHealthRoute(t *testing.T) {
	h := buildTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}
}
