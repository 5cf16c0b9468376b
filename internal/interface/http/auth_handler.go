package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cartify/auth-service/internal/application"
	"github.com/cartify/auth-service/internal/interface/middleware"
	"github.com/cartify/auth-service/pkg/helpers"
	"github.com/cartify/auth-service/pkg/response"
	"github.com/cartify/auth-service/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,role"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	h.Logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	response.Error(c, http.StatusInternalServerError, "Something went wrong", nil)
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}
	_, err := h.Svc.Signup(c.Request.Context(), req.Email, req.Role, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "Account already exists!", nil)
			return
		}
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Account created successfully. Please check your email to verify your account.", nil)
}

// VerifyAccount GET /api/auth/verify-account?token=
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "Token is required", nil)
		return
	}
	if err := h.Svc.VerifyAccount(c.Request.Context(), token); err != nil {
		if errors.Is(err, application.ErrTokenNotFound) {
			response.Error(c, http.StatusNotFound, "Token does not exist", nil)
			return
		}
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Account verified", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}
	u, tokens, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User does not exist", nil)
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
		case errors.Is(err, application.ErrNotVerified):
			response.Error(c, http.StatusForbidden, "Account not verified. Please verify your account via email.", nil)
		default:
			h.fail(c, err)
		}
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken, tokens.RefreshExpiry)
	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user": gin.H{
			"id":       u.ID,
			"email":    u.Email,
			"role":     u.Role,
			"verified": u.Verified,
		},
		"access_token": tokens.AccessToken,
	})
}

// GoogleCallback GET /api/auth/google/callback?code=
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, http.StatusBadRequest, "Authorization code is required", nil)
		return
	}
	_, tokens, err := h.Svc.FederatedLogin(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		h.fail(c, err)
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken, tokens.RefreshExpiry)
	response.Success(c, http.StatusOK, "Login successful", gin.H{"access_token": tokens.AccessToken})
}

// RefreshTokens POST /api/auth/refresh-token
func (h *AuthHandler) RefreshTokens(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookieName)
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "Refresh token required", nil)
		return
	}
	tokens, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		if errors.Is(err, application.ErrRefreshInvalid) {
			response.Error(c, http.StatusUnauthorized, "Invalid refresh token, please login", nil)
			return
		}
		h.fail(c, err)
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken, tokens.RefreshExpiry)
	response.Success(c, http.StatusOK, "Tokens refreshed successfully", gin.H{"access_token": tokens.AccessToken})
}

// ForgotPassword POST /api/auth/forgot-password
// The response is identical whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "If an account exists for that email, a reset link has been sent", nil)
}

// VerifyPasswordResetToken POST /api/auth/verify-password-reset-token?token=
func (h *AuthHandler) VerifyPasswordResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "Token is required", nil)
		return
	}
	if err := h.Svc.VerifyResetToken(c.Request.Context(), token); err != nil {
		if errors.Is(err, application.ErrTokenNotFound) {
			response.Error(c, http.StatusNotFound, "Token does not exist", nil)
			return
		}
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Token is valid", nil)
}

// ResetPassword PATCH /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, application.ErrTokenNotFound):
			response.Error(c, http.StatusNotFound, "Token does not exist", nil)
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Email does not exist", nil)
		default:
			h.fail(c, err)
		}
		return
	}
	response.Success(c, http.StatusOK, "Password reset successful", nil)
}

// Logout POST /api/auth/logout (requires session middleware)
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken := c.GetString(middleware.CtxAccessTokenKey)
	refresh, _ := c.Cookie(helpers.RefreshCookieName)
	if err := h.Svc.Logout(c.Request.Context(), accessToken, refresh); err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.ClearRefresh(c)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}
