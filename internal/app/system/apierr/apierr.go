// Package apierr defines the API error taxonomy and its JSON renderings.
//
// Validation and conflict failures render as {"errors":[{"msg":...}]};
// everything else renders as {"msg":...}. Unexpected errors never leak
// detail to the caller: they render as a generic 500 and are logged at
// the handler boundary.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies an API error.
type Kind int

const (
	KindValidation Kind = iota + 1 // malformed or missing input
	KindAuth                       // missing/invalid token, or not the owner
	KindNotFound                   // resource absent or identifier malformed
	KindConflict                   // uniqueness violation (duplicate email)
	KindServer                     // unexpected storage/infrastructure failure
)

// Error is an API error with an HTTP status and one or more messages.
type Error struct {
	Kind   Kind
	Status int
	Msgs   []string
}

func (e *Error) Error() string {
	if len(e.Msgs) == 0 {
		return "api error"
	}
	return e.Msgs[0]
}

// Validation returns a 400 error rendered as an errors array.
func Validation(msgs ...string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Msgs: msgs}
}

// Auth returns a 401 error.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Msgs: []string{msg}}
}

// NotFound returns a 404 error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Msgs: []string{msg}}
}

// Conflict returns a 400 error rendered as an errors array, matching the
// wire shape of validation failures.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Msgs: []string{msg}}
}

// Server returns the generic 500 error.
func Server() *Error {
	return &Error{Kind: KindServer, Status: http.StatusInternalServerError, Msgs: []string{"Server error"}}
}

// WithStatus returns a copy of e with a different HTTP status. Used where
// a route reports not-found as a 400 (profile lookups).
func (e *Error) WithStatus(status int) *Error {
	c := *e
	c.Status = status
	return &c
}

type errorItem struct {
	Msg string `json:"msg"`
}

type errorsBody struct {
	Errors []errorItem `json:"errors"`
}

type msgBody struct {
	Msg string `json:"msg"`
}

// Write renders err to w. Errors that are not *Error render as the
// generic server error; the caller is responsible for logging those.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Server()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)

	switch apiErr.Kind {
	case KindValidation, KindConflict:
		body := errorsBody{Errors: make([]errorItem, 0, len(apiErr.Msgs))}
		for _, m := range apiErr.Msgs {
			body.Errors = append(body.Errors, errorItem{Msg: m})
		}
		_ = json.NewEncoder(w).Encode(body)
	default:
		_ = json.NewEncoder(w).Encode(msgBody{Msg: apiErr.Error()})
	}
}

// WriteJSON renders v as a 200 JSON response.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
