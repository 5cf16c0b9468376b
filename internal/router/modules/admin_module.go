package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartify/auth-service/internal/container"
	"github.com/cartify/auth-service/internal/domain/entity"
	"github.com/cartify/auth-service/internal/domain/repository"
	handlers "github.com/cartify/auth-service/internal/interface/http"
	"github.com/cartify/auth-service/internal/interface/middleware"
	"github.com/cartify/auth-service/pkg/helpers"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
	Revoked repository.RevocationList
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager, users repository.UserRepository, revoked repository.RevocationList) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt, Users: users, Revoked: revoked}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.Auth(m.JWT, m.Revoked),
		middleware.RequireRole(m.Users, entity.RoleAdmin),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()),
	)
	admin.GET("/users/search", m.Handler.SearchUsers)
}
