package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"devlink/internal/app/system/auth"
	"devlink/internal/domain/models"
	"devlink/internal/testutil"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)

	tokens, err := auth.NewTokenManager("test-secret", auth.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return NewHandler(db, tokens, zap.NewNop())
}

func registerUser(t *testing.T, h *Handler, ctx context.Context, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	user, err := h.Users.Create(ctx, models.User{
		Name: "Alice", Email: email, Password: string(hash),
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := registerUser(t, h, ctx, "alice@example.com", "secret123")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	testutil.DecodeBody(t, rec, &body)
	uid, err := h.Tokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if uid != user.ID {
		t.Error("token identifies the wrong user")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	registerUser(t, h, ctx, "alice@example.com", "secret123")

	cases := map[string]map[string]string{
		"unknown email":  {"email": "nobody@example.com", "password": "secret123"},
		"wrong password": {"email": "alice@example.com", "password": "wrong-password"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth", payload))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			msgs := testutil.ErrList(t, rec)
			if len(msgs) != 1 || msgs[0] != "Invalid credentials" {
				t.Fatalf("messages = %v, want exactly [Invalid credentials]", msgs)
			}
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	registerUser(t, h, ctx, "alice@example.com", "secret123")

	payload := map[string]string{"email": "alice@example.com", "password": "wrong"}
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.Login(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth", payload))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d status = %d, want 400", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.Login(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth", payload))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if msg := testutil.ErrMsg(t, rec); msg == "" {
		t.Error("expected a block reason")
	}
}

func TestMe(t *testing.T) {
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := registerUser(t, h, ctx, "alice@example.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, testutil.AsUser(req, user.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.User
	testutil.DecodeBody(t, rec, &got)
	if got.ID != user.ID {
		t.Error("returned a different user")
	}
	// The password hash must never appear in a response.
	if strings.Contains(rec.Body.String(), user.Password) {
		t.Error("response leaks the password hash")
	}
}

func TestMeDeletedAccount(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, testutil.AsUser(req, primitive.NewObjectID()))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := testutil.ErrMsg(t, rec); msg != "Token is not valid" {
		t.Errorf("msg = %q", msg)
	}
}
