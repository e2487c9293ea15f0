package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("signing secret is not configured")

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies the signed session tokens carried in the
// "token" cookie. Tokens are not stored server-side: validity is purely
// signature plus expiry.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// SecretConfigured reports whether the manager holds a usable signing
// secret. The session gate answers 500 rather than redirecting when it
// does not.
func (m *Manager) SecretConfigured() bool {
	return len(m.secret) > 0
}

func (m *Manager) GenerateSessionToken(userID, email string) (string, time.Time, error) {
	if !m.SecretConfigured() {
		return "", time.Time{}, ErrNoSecret
	}

	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	raw, err := token.SignedString(m.secret)

	if err != nil {
		return "", time.Time{}, err
	}

	return raw, expiresAt, nil
}

func (m *Manager) VerifySessionToken(tokenStr string) (*Claims, error) {
	if !m.SecretConfigured() {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
