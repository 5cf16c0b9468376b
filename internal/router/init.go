package router

import (
	"github.com/cartify/auth-service/internal/application"
	"github.com/cartify/auth-service/internal/container"
	"github.com/cartify/auth-service/internal/infrastructure/mail"
	"github.com/cartify/auth-service/internal/infrastructure/oauth"
	pginfra "github.com/cartify/auth-service/internal/infrastructure/postgres"
	"github.com/cartify/auth-service/internal/infrastructure/redisdb"
	"github.com/cartify/auth-service/internal/infrastructure/search"
	handlers "github.com/cartify/auth-service/internal/interface/http"
	"github.com/cartify/auth-service/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers the feature modules. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	tokens := pginfra.NewTokenRepository(container.GetPGPool())
	revoked := redisdb.NewRevocationList(container.GetRedis())
	index := search.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)

	sender := &mail.QueueSender{
		Pub:         container.GetRabbitPub(),
		VerifyURL:   cfg.VerifyAccountURL,
		ResetURL:    cfg.ResetPasswordURL,
		CompanyName: cfg.CompanyName,
		SupportURL:  cfg.SupportURL,
		VerifyTTL:   cfg.VerifyTTL,
		ResetTTL:    cfg.ResetTTL,
		Enabled:     cfg.MailSendEnabled,
	}

	google := oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	authSvc := application.NewAuthService(
		users, tokens, revoked, index,
		container.GetJWT(), sender, google, logger,
		application.TokenTTLs{Refresh: cfg.RefreshTTL, Verify: cfg.VerifyTTL, Reset: cfg.ResetTTL},
	)
	adminSvc := application.NewAdminService(index)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	adminHandler := handlers.NewAdminHandler(adminSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT(), users, revoked))
	r.Add(modules.NewAdminModule(adminHandler, container.GetJWT(), users, revoked))
}
