// Package token issues and verifies the stateless session credential.
// A token is valid if and only if its signature checks out against the
// configured secret and it has not expired; no server-side state is kept.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskbox/taskbox-api/internal/constants"
)

// ErrInvalidToken is returned for every verification failure. Absent,
// malformed, badly signed, and expired tokens are deliberately
// indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid token")

// Manager signs and verifies session tokens with a fixed HMAC secret.
type Manager struct {
	secret []byte
}

// NewManager creates a Manager for the given secret key.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue produces a signed token identifying userID, expiring 30 days
// from now.
func (m *Manager) Issue(userID uint64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(constants.SessionLifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates raw, returning the embedded user ID.
func (m *Manager) Verify(raw string) (uint64, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
