// internal/app/system/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTokenTTL matches the fixed session length: tokens expire 100
// hours after issue.
const DefaultTokenTTL = 100 * time.Hour

// tokenUser is the only payload a token carries.
type tokenUser struct {
	ID string `json:"id"`
}

// claims embeds the user identifier under "user", the same envelope the
// API has always issued.
type claims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies stateless session tokens. Validity is
// solely a function of signature and expiry; there is no server-side
// session store.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a manager signing with the given secret. A ttl
// of zero selects DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for the given user id.
func (m *TokenManager) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	c := claims{
		User: tokenUser{ID: userID.Hex()},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
func (m *TokenManager) Verify(token string) (primitive.ObjectID, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return primitive.NilObjectID, fmt.Errorf("invalid token")
	}

	uid, err := primitive.ObjectIDFromHex(c.User.ID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid token subject")
	}
	return uid, nil
}
