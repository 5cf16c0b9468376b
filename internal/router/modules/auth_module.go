package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartify/auth-service/internal/container"
	"github.com/cartify/auth-service/internal/domain/repository"
	handlers "github.com/cartify/auth-service/internal/interface/http"
	"github.com/cartify/auth-service/internal/interface/middleware"
	"github.com/cartify/auth-service/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
	Revoked repository.RevocationList
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, users repository.UserRepository, revoked repository.RevocationList) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Users: users, Revoked: revoked}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Tight per-IP limits on the credential-sensitive endpoints.
	signupLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP())
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath())
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP())

	auth := rg.Group("/auth")
	auth.POST("/signup", signupLimiter, m.Handler.Signup)
	auth.GET("/verify-account", m.Handler.VerifyAccount)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.GET("/google/callback", loginLimiter, m.Handler.GoogleCallback)
	auth.POST("/refresh-token", refreshLimiter, m.Handler.RefreshTokens)
	auth.POST("/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	auth.POST("/verify-password-reset-token", m.Handler.VerifyPasswordResetToken)
	auth.PATCH("/reset-password", forgotLimiter, m.Handler.ResetPassword)

	// Logout needs the verified session so the raw token can be blacklisted.
	protected := auth.Group("/")
	protected.Use(middleware.Auth(m.JWT, m.Revoked))
	protected.POST("/logout", m.Handler.Logout)
}
