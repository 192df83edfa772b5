package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenHeaderSent(t *testing.T) {
	var gotToken, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("x-auth-token")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"64a000000000000000000001","name":"Alice"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	c.SetToken("tok-123")

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("name = %q", user.Name)
	}
	if gotToken != "tok-123" {
		t.Errorf("token header = %q", gotToken)
	}
	if gotRequestID == "" {
		t.Error("expected a request id header")
	}
}

func TestDecodesValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"msg":"Name is required"},{"msg":"Please include a valid email"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Register(context.Background(), "", "bad", "secret123")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || len(apiErr.Msgs) != 2 {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if apiErr.Msgs[0] != "Name is required" {
		t.Errorf("first msg = %q", apiErr.Msgs[0])
	}
}

func TestDecodesSingleMsgErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"Token is not valid"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if len(apiErr.Msgs) != 1 || apiErr.Msgs[0] != "Token is not valid" {
		t.Errorf("msgs = %v", apiErr.Msgs)
	}
}

func TestLoginStoresNothingImplicitly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	token, err := c.Login(context.Background(), "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "tok-abc" {
		t.Errorf("token = %q", token)
	}
	// The caller decides when to adopt the token.
	if c.Token() != "" {
		t.Error("Login must not set the token implicitly")
	}
}
