package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartify/auth-service/internal/domain/entity"
	"github.com/cartify/auth-service/internal/domain/repository"
	"github.com/cartify/auth-service/pkg/response"
)

// RequireRole gates a route on the caller's stored role. It runs after Auth,
// so the user id in context is already verified; the role is read from the
// credential store rather than trusted from the token.
func RequireRole(users repository.UserRepository, role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			response.AbortError(c, http.StatusUnauthorized, "Unauthorized access. Please log in.")
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil || u.Role != role {
			response.AbortError(c, http.StatusForbidden, "Access denied, you do not have sufficient permission to perform this action!")
			return
		}
		c.Next()
	}
}
