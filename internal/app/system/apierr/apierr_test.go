package apierr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devlink/internal/app/system/apierr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse body %q: %v", rec.Body.String(), err)
	}
}

func TestWrite_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.Write(rec, apierr.Validation("Name is required", "Please include a valid email"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	decode(t, rec, &body)

	if len(body.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(body.Errors))
	}
	if body.Errors[0].Msg != "Name is required" {
		t.Errorf("first msg: got %q", body.Errors[0].Msg)
	}
}

func TestWrite_Conflict_SameShapeAsValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.Write(rec, apierr.Conflict("User already exists"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	decode(t, rec, &body)

	if len(body.Errors) != 1 || body.Errors[0].Msg != "User already exists" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestWrite_Auth(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.Write(rec, apierr.Auth("Token is not valid"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body struct {
		Msg string `json:"msg"`
	}
	decode(t, rec, &body)
	if body.Msg != "Token is not valid" {
		t.Errorf("msg: got %q", body.Msg)
	}
}

func TestWrite_NotFound_WithStatusOverride(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.Write(rec, apierr.NotFound("Profile not found").WithStatus(http.StatusBadRequest))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWrite_UnknownError_IsGenericServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.Write(rec, errors.New("pq: connection reset by peer"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body struct {
		Msg string `json:"msg"`
	}
	decode(t, rec, &body)
	if body.Msg != "Server error" {
		t.Errorf("internal detail leaked: %q", body.Msg)
	}
}
