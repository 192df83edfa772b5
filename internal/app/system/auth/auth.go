// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/internal/app/system/apierr"
)

// HeaderName is the request header private routes read the token from.
const HeaderName = "x-auth-token"

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUserID returns the authenticated user id attached by
// RequireToken, and a found flag.
func CurrentUserID(r *http.Request) (primitive.ObjectID, bool) {
	uid, ok := r.Context().Value(currentUserKey).(primitive.ObjectID)
	return uid, ok
}

// RequireToken verifies the session token on every request before any
// handler logic runs. On success the decoded user id is attached to the
// request context; on failure the request short-circuits with a 401.
// Stateless and safe to run concurrently.
func (m *TokenManager) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(HeaderName)
		if token == "" {
			apierr.Write(w, apierr.Auth("No token, authorization denied"))
			return
		}

		uid, err := m.Verify(token)
		if err != nil {
			apierr.Write(w, apierr.Auth("Token is not valid"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), uid)))
	})
}

func withUserID(ctx context.Context, uid primitive.ObjectID) context.Context {
	return context.WithValue(ctx, currentUserKey, uid)
}

// WithTestUser attaches a user id to the request context directly,
// bypassing token verification. For handler tests only.
func WithTestUser(r *http.Request, uid primitive.ObjectID) *http.Request {
	return r.WithContext(withUserID(r.Context(), uid))
}
