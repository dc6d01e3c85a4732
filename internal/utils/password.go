package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// AdminCredentials is the configured administrator login.  Hash takes
// precedence over Plain when both are set.
type AdminCredentials struct {
	Email string
	Plain string
	Hash  string
}

// IsAdminEmail reports whether email names the administrator account.
func (a AdminCredentials) IsAdminEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), a.Email)
}

// Verify checks a login attempt against the administrator credentials.
func (a AdminCredentials) Verify(email, password string) bool {
	if !a.IsAdminEmail(email) {
		return false
	}
	if a.Hash != "" {
		return VerifyPassword(a.Hash, password)
	}
	if a.Plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.Plain), []byte(password)) == 1
}
