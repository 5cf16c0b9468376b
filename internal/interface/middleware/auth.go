package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cartify/auth-service/internal/domain/repository"
	"github.com/cartify/auth-service/pkg/helpers"
	"github.com/cartify/auth-service/pkg/response"
)

// Context keys set by Auth on success. The raw token is kept because logout
// needs the exact value to blacklist.
const (
	CtxUserIDKey      = "userID"
	CtxAccessTokenKey = "accessToken"
)

// Auth is the per-request session check: bearer extraction, signature and
// expiry verification, then a revocation-list lookup. The request walks
// no-token -> invalid -> expired -> revoked before it may reach valid.
func Auth(jwt *helpers.JWTManager, revoked repository.RevocationList) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusBadRequest, "Authorization header required!")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.AbortError(c, http.StatusBadRequest, "Access token required!")
			return
		}
		token := parts[1]

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				response.AbortError(c, http.StatusUnauthorized, "Your session has expired. Please log in again.")
				return
			}
			response.AbortError(c, http.StatusUnauthorized, "Unauthorized access. Please log in.")
			return
		}

		blacklisted, err := revoked.Contains(c.Request.Context(), token)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, "Something went wrong")
			return
		}
		if blacklisted {
			response.AbortError(c, http.StatusUnauthorized, "Token is blacklisted, please login")
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxAccessTokenKey, token)
		c.Next()
	}
}
