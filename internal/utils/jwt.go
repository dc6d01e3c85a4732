package utils // package utils provides helpers for session tokens, hashing and validation

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminUserID is the subject carried by administrator sessions.  The
// administrator has no users row.
const AdminUserID = "admin"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// SessionClaims is the JWT payload stored in the session cookie.
type SessionClaims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Principal converts the claims back into the caller identity.
func (c SessionClaims) Principal() Principal {
	return Principal{UserID: c.UserID, Email: c.Email, Name: c.Name, IsAdmin: c.IsAdmin}
}

// SessionToken is a signed session JWT along with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for p valid for ttl.
func NewSessionToken(secret string, p Principal, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		UserID:  p.UserID,
		Email:   p.Email,
		Name:    p.Name,
		IsAdmin: p.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ErrInvalidSession is returned for tokens that are malformed, expired,
// signed with another key or missing a subject.
var ErrInvalidSession = errors.New("invalid session token")

// ParseSessionToken verifies raw and returns its claims.  Only HMAC signing
// methods are accepted.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid || claims.UserID == "" {
		return SessionClaims{}, ErrInvalidSession
	}
	return claims, nil
}
