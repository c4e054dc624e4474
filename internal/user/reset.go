package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetStore persists one-time password recovery tokens.
type ResetStore interface {
	Create(ctx context.Context, pr *PasswordReset) error
	// GetByToken returns nil when the token is unknown, used or expired.
	GetByToken(ctx context.Context, token string) (*PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type PGResetStore struct{ db *pgxpool.Pool }

func NewPGResetStore(db *pgxpool.Pool) *PGResetStore { return &PGResetStore{db: db} }

func (r *PGResetStore) Create(ctx context.Context, pr *PasswordReset) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_resets (id, user_id, token, used, expires_at, created_at)
		VALUES ($1,$2,$3,FALSE,$4,NOW())
	`, pr.ID, pr.UserID, pr.Token, pr.ExpiresAt)
	return err
}

func (r *PGResetStore) GetByToken(ctx context.Context, token string) (*PasswordReset, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pr PasswordReset
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, used, expires_at, created_at
		FROM password_resets
		WHERE token = $1 AND used = FALSE AND expires_at > NOW()
	`, token).Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.Used, &pr.ExpiresAt, &pr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *PGResetStore) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE password_resets SET used = TRUE WHERE id = $1`, id)
	return err
}

func (r *PGResetStore) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID)
	return err
}
