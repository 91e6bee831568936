package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/jwt"
	"github.com/amoylab/casedesk/internal/auth/password"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
	"github.com/amoylab/casedesk/pkg/logger"
)

// loadConfig reads the configuration named by --conf
func loadConfig() (*config.APIServerConfig, string, error) {
	cfg, path, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load configuration %s: %w", path, err)
	}
	return cfg, path, nil
}

func initLogger(cfg *config.APIServerConfig) (*zap.Logger, error) {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return lg.With(zap.String("env", cfg.Server.Environment)), nil
}

// initRuntime sets up translations and request validation
func initRuntime(cfg *config.APIServerConfig) error {
	if err := i18n.InitTranslator(cfg.I18n.Path); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	if cfg.I18n.DefaultLang != "" {
		i18n.SetDefaultLanguage(cfg.I18n.DefaultLang)
	}
	i18n.SetExposeErrorDetails(!cfg.Server.IsProduction())
	return validator.Setup()
}

func initDatabase(lg *zap.Logger, cfg *config.DatabaseConfig) (database.Database, error) {
	db, err := database.NewDatabase(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func initJWT(cfg *config.JWTConfig) (*jwt.Service, error) {
	return jwt.NewService(jwt.Config{
		SecretKey:       cfg.SecretKey,
		AccessDuration:  cfg.AccessDuration,
		RefreshDuration: cfg.RefreshDuration,
		Issuer:          cfg.Issuer,
		AccessAudience:  cfg.AccessAudience,
		RefreshAudience: cfg.RefreshAudience,
	})
}

func newHasher(cfg *config.SecurityConfig) *password.Hasher {
	return password.NewHasher(cfg.BcryptCost)
}
