package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cartify/auth-service/internal/application"
	"github.com/cartify/auth-service/internal/domain/entity"
	"github.com/cartify/auth-service/internal/domain/repository"
	"github.com/cartify/auth-service/internal/interface/middleware"
	"github.com/cartify/auth-service/pkg/helpers"
	"github.com/cartify/auth-service/pkg/validation"
)

type memUsers struct {
	byEmail map[string]*entity.User
}

func (m *memUsers) CreateWithProfile(_ context.Context, u *entity.User, p *entity.Profile) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	p.UserID = u.ID
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, email, hash string) error {
	u, ok := m.byEmail[email]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) MarkVerified(_ context.Context, id string) error {
	for _, u := range m.byEmail {
		if u.ID == id {
			u.Verified = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type memTokens struct {
	byValue map[string]*entity.Token
}

func (m *memTokens) Create(_ context.Context, t *entity.Token) error {
	for v, e := range m.byValue {
		if e.UserID == t.UserID && e.Purpose == t.Purpose {
			delete(m.byValue, v)
		}
	}
	t.ID = uuid.NewString()
	m.byValue[t.Value] = t
	return nil
}

func (m *memTokens) GetByValue(_ context.Context, value string) (*entity.Token, error) {
	t, ok := m.byValue[value]
	if !ok || t.Expired(time.Now()) {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (m *memTokens) DeleteByValue(_ context.Context, value string) error {
	if _, ok := m.byValue[value]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byValue, value)
	return nil
}

func (m *memTokens) DeleteByUserPurpose(_ context.Context, userID string, purpose entity.TokenPurpose) error {
	for v, t := range m.byValue {
		if t.UserID == userID && t.Purpose == purpose {
			delete(m.byValue, v)
		}
	}
	return nil
}

type memRevoked struct {
	tokens map[string]struct{}
}

func (m *memRevoked) Add(_ context.Context, token string, _ time.Duration) error {
	m.tokens[token] = struct{}{}
	return nil
}

func (m *memRevoked) Contains(_ context.Context, token string) (bool, error) {
	_, ok := m.tokens[token]
	return ok, nil
}

type memSender struct {
	verify map[string]string
	reset  map[string]string
}

func (m *memSender) SendVerification(_ context.Context, email, token string) error {
	m.verify[email] = token
	return nil
}

func (m *memSender) SendPasswordReset(_ context.Context, email, token string) error {
	m.reset[email] = token
	return nil
}

type handlerEnv struct {
	router *gin.Engine
	sender *memSender
}

func setupRouter(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	jwt, err := helpers.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := &memUsers{byEmail: map[string]*entity.User{}}
	tokens := &memTokens{byValue: map[string]*entity.Token{}}
	revoked := &memRevoked{tokens: map[string]struct{}{}}
	sender := &memSender{verify: map[string]string{}, reset: map[string]string{}}

	svc := application.NewAuthService(
		users, tokens, revoked, nil,
		jwt, sender, nil, logger,
		application.TokenTTLs{Refresh: 24 * time.Hour, Verify: time.Hour, Reset: time.Hour},
	)
	h := NewAuthHandler(svc, logger, "localhost", false)

	r := gin.New()
	auth := r.Group("/api/auth")
	auth.POST("/signup", h.Signup)
	auth.GET("/verify-account", h.VerifyAccount)
	auth.POST("/login", h.Login)
	auth.POST("/refresh-token", h.RefreshTokens)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/verify-password-reset-token", h.VerifyPasswordResetToken)
	auth.PATCH("/reset-password", h.ResetPassword)
	auth.POST("/logout", middleware.Auth(jwt, revoked), h.Logout)

	return &handlerEnv{router: r, sender: sender}
}

func (e *handlerEnv) do(t *testing.T, method, path string, body any, mod func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if mod != nil {
		mod(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    map[string]any    `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (e *handlerEnv) signupAndVerify(t *testing.T, email, password string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email": email, "role": "User", "password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	token := e.sender.verify[strings.ToLower(email)]
	require.NotEmpty(t, token)
	w = e.do(t, http.MethodGet, "/api/auth/verify-account?token="+token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.RefreshCookieName {
			return c
		}
	}
	return nil
}

func TestSignupEndpoint(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email": "alice@example.com", "role": "User", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseEnvelope(t, w)
	require.True(t, resp.Success)
	require.Contains(t, resp.Message, "check your email")
}

func TestSignupDuplicateEndpoint(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email": "alice@example.com", "role": "User", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := parseEnvelope(t, w)
	require.False(t, resp.Success)
	require.Equal(t, "Account already exists!", resp.Message)
}

func TestSignupValidation(t *testing.T) {
	env := setupRouter(t)

	cases := []struct {
		name string
		body gin.H
		want string // field expected in errors
	}{
		{"bad email", gin.H{"email": "nope", "role": "User", "password": "secret123"}, "email"},
		{"bad role", gin.H{"email": "a@b.com", "role": "Root", "password": "secret123"}, "role"},
		{"short password", gin.H{"email": "a@b.com", "role": "User", "password": "abc"}, "password"},
		{"missing password", gin.H{"email": "a@b.com", "role": "User"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/signup", tc.body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseEnvelope(t, w)
			require.False(t, resp.Success)
			require.Contains(t, resp.Errors, tc.want)
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseEnvelope(t, w)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Data["access_token"])
	user, ok := resp.Data["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "alice@example.com", user["email"])
	require.NotContains(t, user, "password")

	cookie := refreshCookie(w)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Len(t, cookie.Value, 32)
}

func TestLoginWrongPasswordEndpoint(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "wrongpass",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid credentials", parseEnvelope(t, w).Message)
}

func TestLoginUnknownUserEndpoint(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "User does not exist", parseEnvelope(t, w).Message)
}

func TestLoginUnverifiedEndpoint(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email": "alice@example.com", "role": "User", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshTokenEndpoint(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	login := env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	cookie := refreshCookie(login)
	require.NotNil(t, cookie)

	w := env.do(t, http.MethodPost, "/api/auth/refresh-token", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	require.NotEmpty(t, resp.Data["access_token"])

	rotated := refreshCookie(w)
	require.NotNil(t, rotated)
	require.NotEqual(t, cookie.Value, rotated.Value)

	// Replaying the pre-rotation cookie must fail.
	w = env.do(t, http.MethodPost, "/api/auth/refresh-token", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshTokenMissingCookie(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPost, "/api/auth/refresh-token", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Refresh token required", parseEnvelope(t, w).Message)
}

func TestForgotPasswordEndpointIsUniform(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	known := env.do(t, http.MethodPost, "/api/auth/forgot-password", gin.H{"email": "alice@example.com"}, nil)
	unknown := env.do(t, http.MethodPost, "/api/auth/forgot-password", gin.H{"email": "nobody@example.com"}, nil)

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	require.Equal(t, parseEnvelope(t, known).Message, parseEnvelope(t, unknown).Message)
}

func TestResetPasswordFlowEndpoint(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/api/auth/forgot-password", gin.H{"email": "alice@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	reset := env.sender.reset["alice@example.com"]
	require.NotEmpty(t, reset)

	w = env.do(t, http.MethodPost, "/api/auth/verify-password-reset-token?token="+reset, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPatch, "/api/auth/reset-password", gin.H{
		"token": reset, "email": "alice@example.com",
		"password": "newsecret1", "confirmPassword": "newsecret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// New password logs in, old one does not.
	w = env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "newsecret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetPasswordConfirmMismatch(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPatch, "/api/auth/reset-password", gin.H{
		"token": "sometoken", "email": "alice@example.com",
		"password": "newsecret1", "confirmPassword": "different1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, parseEnvelope(t, w).Errors, "confirmPassword")
}

func TestResetPasswordUnknownToken(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPatch, "/api/auth/reset-password", gin.H{
		"token": "deadbeefdeadbeefdeadbeefdeadbeef", "email": "alice@example.com",
		"password": "newsecret1", "confirmPassword": "newsecret1",
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Token does not exist", parseEnvelope(t, w).Message)
}

func TestLogoutEndpoint(t *testing.T) {
	env := setupRouter(t)
	env.signupAndVerify(t, "alice@example.com", "secret123")

	login := env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	access, _ := parseEnvelope(t, login).Data["access_token"].(string)
	require.NotEmpty(t, access)
	cookie := refreshCookie(login)

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusOK, w.Code)

	cleared := refreshCookie(w)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)

	// Blacklisted token is rejected on the next protected call.
	w = env.do(t, http.MethodPost, "/api/auth/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access)
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "blacklisted")
}

func TestVerifyAccountMissingToken(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodGet, "/api/auth/verify-account", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Token is required", parseEnvelope(t, w).Message)
}

func TestVerifyAccountTokenIsSingleUse(t *testing.T) {
	env := setupRouter(t)
	w := env.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email": "alice@example.com", "role": "User", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	token := env.sender.verify["alice@example.com"]

	w = env.do(t, http.MethodGet, "/api/auth/verify-account?token="+token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/verify-account?token="+token, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
