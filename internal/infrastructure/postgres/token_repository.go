package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cartify/auth-service/internal/domain/entity"
	"github.com/cartify/auth-service/internal/domain/repository"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Create stores the token. One active token per purpose per user: any
// previous row for the same (user, purpose) is dropped in the same
// transaction as the insert.
func (r *TokenRepository) Create(ctx context.Context, t *entity.Token) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM tokens WHERE user_id = $1 AND purpose = $2
	`, t.UserID, t.Purpose); err != nil {
		return err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO tokens (user_id, token, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.Value, t.Purpose, t.ExpiresAt)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByValue returns ErrNotFound for expired rows even when they still exist;
// the expiry comparison happens in the query, not in a cleanup job.
func (r *TokenRepository) GetByValue(ctx context.Context, value string) (*entity.Token, error) {
	t := &entity.Token{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, purpose, expires_at, created_at
		FROM tokens
		WHERE token = $1 AND expires_at > now()
	`, value)
	if err := row.Scan(&t.ID, &t.UserID, &t.Value, &t.Purpose, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TokenRepository) DeleteByValue(ctx context.Context, value string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE token = $1`, value)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TokenRepository) DeleteByUserPurpose(ctx context.Context, userID string, purpose entity.TokenPurpose) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM tokens WHERE user_id = $1 AND purpose = $2
	`, userID, purpose)
	return err
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
