package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptySecret is returned when a JWTManager is constructed without a signing secret.
	ErrEmptySecret = errors.New("jwt signing secret is empty")
	// ErrTokenExpired is returned when a token's embedded expiry has elapsed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for tokens that fail signature or claim checks.
	ErrTokenInvalid = errors.New("invalid token")
)

// JWTManager signs and verifies access tokens. Refresh tokens are opaque and
// live in the token store, so only one secret is held here.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager fails closed: an empty secret refuses to construct a manager
// rather than silently signing with an empty key.
func NewJWTManager(secret string, accessTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}, nil
}

// GenerateAccessToken issues a signed HS256 token with the user id as subject.
func (m *JWTManager) GenerateAccessToken(userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// AccessClaims is the verified content of an access token.
type AccessClaims struct {
	UserID    string
	ExpiresAt time.Time
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// Expired tokens are reported as ErrTokenExpired, everything else as
// ErrTokenInvalid, so callers can word the two responses differently.
func (m *JWTManager) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return &AccessClaims{UserID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// AccessTTL exposes the configured token lifetime.
func (m *JWTManager) AccessTTL() time.Duration { return m.accessTTL }
