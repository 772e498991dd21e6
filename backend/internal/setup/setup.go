package setup

import (
	"context"
	"fmt"

	"github.com/medina-starter/accounts/backend/internal/handler"
	"github.com/medina-starter/accounts/backend/internal/service"
	"github.com/medina-starter/accounts/backend/internal/storage/pg"
	"github.com/medina-starter/accounts/backend/internal/storage/sqlite"
	"github.com/medina-starter/accounts/backend/internal/storage/sqlstore"
	"github.com/medina-starter/accounts/backend/internal/utils/email"
	"github.com/medina-starter/accounts/backend/internal/utils/password"
	"github.com/medina-starter/accounts/shared/config"
	"github.com/medina-starter/accounts/shared/jwt"
	"github.com/medina-starter/accounts/shared/logger"
	"github.com/medina-starter/accounts/shared/middleware"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *sqlstore.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
}

// OpenStorage opens the store selected by the configured driver.
func OpenStorage(ctx context.Context, cfg *config.Config) (*sqlstore.Storage, error) {
	switch cfg.Public.Storage.Driver {
	case config.DriverPostgres:
		return pg.New(ctx, cfg)
	case config.DriverSqlite:
		return sqlite.Open(ctx, cfg.Public.Storage.SqlitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Public.Storage.Driver)
	}
}

// NewNotifier returns the SMTP notifier, or a log-only one when no sender
// address is configured.
func NewNotifier(cfg *config.Email) service.Notifier {
	if cfg.From == "" {
		logger.Log.Warn("no sender address configured, verification emails are only logged")
		return email.LogNotifier{}
	}
	return email.New(cfg)
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Wire(cfg, storage, NewNotifier(&cfg.Private.Email), password.New(0)), nil
}

// Wire builds the services and handlers on top of an opened store.
func Wire(cfg *config.Config, storage *sqlstore.Storage, notifier service.Notifier, hasher service.PasswordHasher) *Dependencies {
	tokens := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, hasher, notifier, tokens, service.NewPasswordAuthenticator(storage, hasher), service.AuthConfig{
		VerificationBaseURL: cfg.Public.Verification.BaseURL,
		VerificationTTL:     cfg.Public.Verification.TTL,
	})
	users := service.NewUsers(storage, auth)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        handler.New(auth, users, storage),
		Jwt:            tokens,
		AuthMiddleware: middleware.NewAuth(tokens),
	}
}
