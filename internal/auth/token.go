// Package auth issues and verifies the bearer credentials the API runs on.
// Tokens are HS256 JWTs carrying the subject id and role; everything else
// in the system only consumes the resulting Identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Identity is who is calling and what they may do.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Issue signs a token for the identity. The returned time is the expiry.
func (m *Manager) Issue(id Identity) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	c := claims{
		Email: id.Email,
		Name:  id.Name,
		Role:  string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    "comercio-api",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// Verify parses and validates a token. Tokens without a subject or role
// claim are rejected as malformed.
func (m *Manager) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if c.Subject == "" || c.Role == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.Name,
		Role:  Role(c.Role),
	}, nil
}

// TTL exposes the configured token lifetime for login responses.
func (m *Manager) TTL() time.Duration { return m.ttl }
