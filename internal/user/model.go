package user

import (
	"time"

	"github.com/MikeMC777/comercio-api/internal/auth"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         auth.Role `json:"role"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordReset is a one-time recovery token for a user.
type PasswordReset struct {
	ID        string
	UserID    string
	Token     string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
