package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/comercio-api/internal/auth"
)

type mockRepo struct {
	createFn         func(ctx context.Context, u *User) error
	getByIDFn        func(ctx context.Context, id string) (*User, error)
	getByEmailFn     func(ctx context.Context, email string) (*User, error)
	updateFn         func(ctx context.Context, u *User) error
	updatePasswordFn func(ctx context.Context, id, hash string) error
}

func (m *mockRepo) Create(ctx context.Context, u *User) error { return m.createFn(ctx, u) }
func (m *mockRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockRepo) Exists(ctx context.Context, id string) (bool, error) { return false, nil }
func (m *mockRepo) List(ctx context.Context, q Query) ([]User, int, error) {
	return nil, 0, nil
}
func (m *mockRepo) Update(ctx context.Context, u *User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}
func (m *mockRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.updatePasswordFn(ctx, id, hash)
}
func (m *mockRepo) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

type memResets struct {
	created []PasswordReset
	used    []string
	deleted []string
}

func (m *memResets) Create(ctx context.Context, pr *PasswordReset) error {
	m.created = append(m.created, *pr)
	return nil
}
func (m *memResets) GetByToken(ctx context.Context, token string) (*PasswordReset, error) {
	for _, pr := range m.created {
		if pr.Token == token && !pr.Used && pr.ExpiresAt.After(time.Now()) {
			cp := pr
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memResets) MarkUsed(ctx context.Context, id string) error {
	m.used = append(m.used, id)
	return nil
}
func (m *memResets) DeleteByUser(ctx context.Context, userID string) error {
	m.deleted = append(m.deleted, userID)
	return nil
}

func activeUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &User{ID: "u-1", Email: "ana@example.com", Name: "Ana", Role: auth.RoleCustomer, Active: true, PasswordHash: hash}
}

func TestAuthenticate(t *testing.T) {
	u := activeUser(t, "correct horse")
	repo := &mockRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ErrNotFound
		},
	}
	svc := NewService(repo, &memResets{})
	ctx := context.Background()

	got, err := svc.Authenticate(ctx, "ana@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u.Active = false
	_, err = svc.Authenticate(ctx, "ana@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	repo := &mockRepo{createFn: func(ctx context.Context, u *User) error { return nil }}
	svc := NewService(repo, &memResets{})
	ctx := context.Background()

	u, err := svc.Register(ctx, "ana@example.com", "Ana", "supersecret", "")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCustomer, u.Role, "role defaults to customer")
	assert.True(t, u.Active)
	assert.NotEqual(t, "supersecret", u.PasswordHash)

	_, err = svc.Register(ctx, "", "Ana", "supersecret", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "ana@example.com", "Ana", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	repo.createFn = func(ctx context.Context, u *User) error { return ErrAlreadyExist }
	_, err = svc.Register(ctx, "ana@example.com", "Ana", "supersecret", "")
	assert.ErrorIs(t, err, ErrAlreadyExist)
}

func TestUpdateWeakPasswordWritesNothing(t *testing.T) {
	u := activeUser(t, "old password")
	var writes int
	repo := &mockRepo{
		getByIDFn: func(ctx context.Context, id string) (*User, error) { return u, nil },
		updateFn: func(ctx context.Context, got *User) error {
			writes++
			return nil
		},
		updatePasswordFn: func(ctx context.Context, id, hash string) error {
			writes++
			return nil
		},
	}
	svc := NewService(repo, &memResets{})
	ctx := context.Background()

	_, err := svc.Update(ctx, u.ID, UpdateParams{Name: "Ana Maria", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)
	assert.Zero(t, writes, "rejected password must not mutate the account")

	_, err = svc.Update(ctx, u.ID, UpdateParams{Name: "Ana Maria", Password: "long enough now"})
	require.NoError(t, err)
	assert.Equal(t, 2, writes)
}

func TestPasswordResetFlow(t *testing.T) {
	u := activeUser(t, "old password")
	var newHash string
	repo := &mockRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return u, nil },
		updatePasswordFn: func(ctx context.Context, id, hash string) error {
			newHash = hash
			return nil
		},
	}
	resets := &memResets{}
	svc := NewService(repo, resets)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, []string{u.ID}, resets.deleted, "prior tokens invalidated")
	require.Len(t, resets.created, 1)

	require.NoError(t, svc.ResetPassword(ctx, token, "brand new pass"))
	assert.True(t, CheckPassword(newHash, "brand new pass"))
	assert.Equal(t, []string{resets.created[0].ID}, resets.used)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "bogus", "brand new pass"), ErrInvalidResetToken)
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "short"), ErrWeakPassword)
}
