package entity

import "time"

// TokenPurpose scopes an opaque token to a single use case.
type TokenPurpose string

const (
	PurposeRefresh       TokenPurpose = "refresh"
	PurposeVerifyAccount TokenPurpose = "verify_account"
	PurposeResetPassword TokenPurpose = "reset_password"
)

// Token is a single-use, purpose-scoped opaque credential. The value is
// random hex from a CSPRNG; meaning exists only through server-side lookup.
type Token struct {
	ID        string
	UserID    string
	Value     string
	Purpose   TokenPurpose
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now. A stale token
// must be treated as invalid even if still present in storage.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
