package database

import (
	"fmt"

	"github.com/amoylab/casedesk/internal/common/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase creates a new database based on configuration
func NewDatabase(cfg *config.DatabaseConfig, lg *zap.Logger) (Database, error) {
	switch cfg.Type {
	case "postgres":
		return NewPostgres(cfg, lg)
	case "sqlite":
		return NewSQLite(cfg, lg)
	case "mysql":
		return NewMySQL(cfg, lg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// open opens the dialector, tunes the pool and migrates the schema
func open(dialector gorm.Dialector, cfg *config.DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := gormDB.AutoMigrate(models()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if lg != nil {
		lg.Info("database ready",
			zap.String("type", cfg.Type),
			zap.String("dbname", cfg.DBName))
	}
	return gormDB, nil
}
