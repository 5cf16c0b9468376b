package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cartify/auth-service/internal/domain/entity"
	"github.com/cartify/auth-service/internal/domain/repository"
	"github.com/cartify/auth-service/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("account already exists")
	ErrNotVerified        = errors.New("account not verified")
	ErrTokenNotFound      = errors.New("token does not exist")
	ErrRefreshInvalid     = errors.New("invalid refresh token")
)

// EmailSender is the outbound-mail capability injected into the orchestrator.
// The production implementation enqueues jobs for the email worker.
type EmailSender interface {
	SendVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// FederatedProfile is what an identity provider vouches for.
type FederatedProfile struct {
	Email    string
	FullName string
}

// FederatedProvider exchanges an authorization code for a verified profile.
type FederatedProvider interface {
	Exchange(ctx context.Context, code string) (*FederatedProfile, error)
}

// TokenTTLs configures opaque token lifetimes per purpose.
type TokenTTLs struct {
	Refresh time.Duration
	Verify  time.Duration
	Reset   time.Duration
}

// SessionTokens is what a successful login/refresh hands back: a signed
// access token for the response body and an opaque refresh token for the
// cookie.
type SessionTokens struct {
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
}

// AuthService composes the credential store, token issuer/store and
// revocation list into the signup/verify/login/refresh/reset/logout flows.
type AuthService struct {
	Users     repository.UserRepository
	Tokens    repository.TokenRepository
	Revoked   repository.RevocationList
	Index     repository.UserIndex
	JWT       *helpers.JWTManager
	Email     EmailSender
	Federated FederatedProvider
	Logger    *logrus.Logger
	TTLs      TokenTTLs
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	revoked repository.RevocationList,
	index repository.UserIndex,
	jwt *helpers.JWTManager,
	email EmailSender,
	federated FederatedProvider,
	logger *logrus.Logger,
	ttls TokenTTLs,
) *AuthService {
	return &AuthService{
		Users:     users,
		Tokens:    tokens,
		Revoked:   revoked,
		Index:     index,
		JWT:       jwt,
		Email:     email,
		Federated: federated,
		Logger:    logger,
		TTLs:      ttls,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issueOpaque(ctx context.Context, userID string, purpose entity.TokenPurpose, ttl time.Duration) (*entity.Token, error) {
	value, err := helpers.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}
	t := &entity.Token{
		UserID:    userID,
		Value:     value,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.Tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *AuthService) indexUser(ctx context.Context, u *entity.User, fullName string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u, fullName); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user index update failed")
	}
}

// Signup creates the user and its profile in one transaction, then issues a
// single-use verification token and hands it to the mail collaborator.
// The storage unique constraint is the duplicate-email source of truth.
func (s *AuthService) Signup(ctx context.Context, email, role, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:         normalizeEmail(email),
		PasswordHash:  hash,
		Role:          entity.Role(role),
		AccountStatus: entity.StatusActive,
	}
	p := &entity.Profile{}
	if err := s.Users.CreateWithProfile(ctx, u, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	verify, err := s.issueOpaque(ctx, u.ID, entity.PurposeVerifyAccount, s.TTLs.Verify)
	if err != nil {
		return nil, err
	}
	if s.Email != nil {
		if err := s.Email.SendVerification(ctx, u.Email, verify.Value); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Error("enqueue verification email failed")
		}
	}
	s.indexUser(ctx, u, "")
	return u, nil
}

// VerifyAccount consumes a verification token: mark verified, then delete,
// so a second call with the same value finds nothing.
func (s *AuthService) VerifyAccount(ctx context.Context, value string) error {
	t, err := s.Tokens.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if t.Purpose != entity.PurposeVerifyAccount || t.Expired(time.Now()) {
		return ErrTokenNotFound
	}
	if err := s.Users.MarkVerified(ctx, t.UserID); err != nil {
		return err
	}
	if err := s.Tokens.DeleteByValue(ctx, t.Value); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if u, err := s.Users.GetByID(ctx, t.UserID); err == nil {
		s.indexUser(ctx, u, "")
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, userID string) (SessionTokens, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID)
	if err != nil {
		return SessionTokens{}, err
	}
	refresh, err := s.issueOpaque(ctx, userID, entity.PurposeRefresh, s.TTLs.Refresh)
	if err != nil {
		return SessionTokens{}, err
	}
	return SessionTokens{
		AccessToken:   access,
		AccessExpiry:  aexp,
		RefreshToken:  refresh.Value,
		RefreshExpiry: refresh.ExpiresAt,
	}, nil
}

// Login verifies credentials and issues a session. The bcrypt comparison is
// constant-time; an unverified account is rejected after the password check
// so the two failures stay distinguishable per the API contract.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, SessionTokens, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, SessionTokens{}, ErrUserNotFound
		}
		return nil, SessionTokens{}, err
	}
	if u.PasswordHash == "" || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, SessionTokens{}, ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, SessionTokens{}, ErrNotVerified
	}
	tokens, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return nil, SessionTokens{}, err
	}
	return u, tokens, nil
}

// FederatedLogin exchanges the provider code, then finds or creates the local
// account. Federated identities arrive pre-verified and carry no password.
func (s *AuthService) FederatedLogin(ctx context.Context, code string) (*entity.User, SessionTokens, error) {
	if s.Federated == nil {
		return nil, SessionTokens{}, ErrInvalidCredentials
	}
	profile, err := s.Federated.Exchange(ctx, code)
	if err != nil {
		return nil, SessionTokens{}, ErrInvalidCredentials
	}

	email := normalizeEmail(profile.Email)
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		u = &entity.User{
			Email:         email,
			Role:          entity.RoleUser,
			AccountStatus: entity.StatusActive,
			Verified:      true,
		}
		p := &entity.Profile{FullName: profile.FullName}
		if err := s.Users.CreateWithProfile(ctx, u, p); err != nil {
			return nil, SessionTokens{}, err
		}
		s.indexUser(ctx, u, profile.FullName)
	} else if err != nil {
		return nil, SessionTokens{}, err
	}

	tokens, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return nil, SessionTokens{}, err
	}
	return u, tokens, nil
}

// Refresh rotates the refresh token: the old value is deleted and a new one
// persisted, so a replay of the stale value fails.
func (s *AuthService) Refresh(ctx context.Context, refreshValue string) (SessionTokens, error) {
	t, err := s.Tokens.GetByValue(ctx, refreshValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SessionTokens{}, ErrRefreshInvalid
		}
		return SessionTokens{}, err
	}
	if t.Purpose != entity.PurposeRefresh || t.Expired(time.Now()) {
		return SessionTokens{}, ErrRefreshInvalid
	}
	// issueSession replaces the user's refresh token row, which also covers
	// deleting the one just looked up.
	return s.issueSession(ctx, t.UserID)
}

// ForgotPassword issues a reset token when the account exists. It reports
// success either way; whether the email exists must not be observable from
// the response.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.Logger != nil {
				s.Logger.WithField("email", normalizeEmail(email)).Debug("password reset requested for unknown email")
			}
			return nil
		}
		return err
	}
	reset, err := s.issueOpaque(ctx, u.ID, entity.PurposeResetPassword, s.TTLs.Reset)
	if err != nil {
		return err
	}
	if s.Email != nil {
		if err := s.Email.SendPasswordReset(ctx, u.Email, reset.Value); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Error("enqueue reset email failed")
		}
	}
	return nil
}

// VerifyResetToken checks the token without consuming it; it stays valid
// until the password update actually succeeds.
func (s *AuthService) VerifyResetToken(ctx context.Context, value string) error {
	t, err := s.Tokens.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if t.Purpose != entity.PurposeResetPassword || t.Expired(time.Now()) {
		return ErrTokenNotFound
	}
	return nil
}

// ResetPassword updates the hash, consumes the reset token only after the
// update succeeds, and revokes every outstanding refresh token so existing
// sessions must re-authenticate.
func (s *AuthService) ResetPassword(ctx context.Context, tokenValue, email, newPassword string) error {
	t, err := s.Tokens.GetByValue(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if t.Purpose != entity.PurposeResetPassword || t.Expired(time.Now()) {
		return ErrTokenNotFound
	}

	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if u.ID != t.UserID {
		return ErrInvalidCredentials
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.Email, hash); err != nil {
		return err
	}
	if err := s.Tokens.DeleteByValue(ctx, t.Value); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return s.Tokens.DeleteByUserPurpose(ctx, u.ID, entity.PurposeRefresh)
}

// Logout blacklists the raw access token for its remaining natural life and
// drops the refresh token, so the session dies immediately on both fronts.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshValue string) error {
	if claims, err := s.JWT.ParseAccessToken(accessToken); err == nil {
		if err := s.Revoked.Add(ctx, accessToken, time.Until(claims.ExpiresAt)); err != nil {
			return err
		}
	}
	if refreshValue != "" {
		if err := s.Tokens.DeleteByValue(ctx, refreshValue); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return nil
}
