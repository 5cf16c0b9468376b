package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cartify/auth-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a row does not exist (or, for tokens, has expired).
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the users unique constraint rejects an insert.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository persists identity records.
type UserRepository interface {
	// CreateWithProfile inserts the user and its profile row in one
	// transaction so a failure leaves neither behind.
	CreateWithProfile(ctx context.Context, u *entity.User, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	MarkVerified(ctx context.Context, id string) error
}

// TokenRepository persists opaque tokens. GetByValue must treat expired rows
// as absent; deletion of expired rows is not required synchronously.
type TokenRepository interface {
	// Create stores the token, replacing any previous token of the same
	// purpose for the same user.
	Create(ctx context.Context, t *entity.Token) error
	GetByValue(ctx context.Context, value string) (*entity.Token, error)
	DeleteByValue(ctx context.Context, value string) error
	// DeleteByUserPurpose drops every token of one purpose for a user,
	// e.g. all refresh tokens after a password change.
	DeleteByUserPurpose(ctx context.Context, userID string, purpose entity.TokenPurpose) error
}

// RevocationList rejects access tokens invalidated before their natural expiry.
type RevocationList interface {
	// Add blacklists the exact token value for at least ttl.
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// UserIndex mirrors user records into the search backend for the admin surface.
type UserIndex interface {
	Index(ctx context.Context, u *entity.User, fullName string) error
	Search(ctx context.Context, query string, size int) ([]map[string]any, error)
}
