package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/comercio-api/internal/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrMissingFields      = errors.New("email, name and password are required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const resetTokenTTL = time.Hour

type Service struct {
	repo   Repository
	resets ResetStore
}

func NewService(repo Repository, resets ResetStore) *Service {
	return &Service{repo: repo, resets: resets}
}

// Authenticate checks the credentials and returns the account. Disabled
// accounts authenticate as if the password were wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.Active || !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Register(ctx context.Context, email, name, password string, role auth.Role) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(name) == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if role == "" {
		role = auth.RoleCustomer
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         role,
		Active:       true,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type UpdateParams struct {
	Email    string
	Name     string
	Role     auth.Role
	Active   *bool
	Password string
}

// Update applies a partial update; empty fields keep their value. All
// input is validated before the first store write.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*User, error) {
	if p.Password != "" && len(p.Password) < 8 {
		return nil, ErrWeakPassword
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:     id,
		Email:  p.Email,
		Name:   p.Name,
		Role:   p.Role,
		Active: current.Active,
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	if p.Password != "" {
		hash, err := HashPassword(p.Password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// RequestPasswordReset invalidates any prior tokens for the account and
// issues a fresh one-time token. The caller decides whether the token is
// echoed back (development) or delivered out of band.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	if err := s.resets.DeleteByUser(ctx, u.ID); err != nil {
		return "", err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	pr := &PasswordReset{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resets.Create(ctx, pr); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	pr, err := s.resets.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if pr == nil {
		return ErrInvalidResetToken
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, pr.UserID, hash); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, pr.ID)
}
