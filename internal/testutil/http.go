package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handlers directly instead of
// through a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewJSONRequest creates a request with a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader *strings.Reader
	if body == nil {
		reader = strings.NewReader("")
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsUser attaches the given user id to the request context, bypassing
// token verification the way the middleware would have.
func AsUser(r *http.Request, uid primitive.ObjectID) *http.Request {
	return auth.WithTestUser(r, uid)
}

// DecodeBody parses the recorder's JSON body into v.
func DecodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body %q: %v", rec.Body.String(), err)
	}
}

// ErrMsg extracts the "msg" field from an error response body.
func ErrMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	DecodeBody(t, rec, &body)
	return body.Msg
}

// ErrList extracts the messages from an {"errors":[...]} response body.
func ErrList(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	DecodeBody(t, rec, &body)
	out := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		out = append(out, e.Msg)
	}
	return out
}
